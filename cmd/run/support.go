// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/perf"
	"github.com/zintix-labs/slotengine/spec"
	"github.com/zintix-labs/slotengine/stats"
)

const (
	maxPlayers        = 100_000
	maxSpinsPerPlayer = 15_000
)

type config struct {
	id        spec.GID
	cfgFile   string // 單一設定檔，優先於 -game
	configDir string // 額外載入的設定目錄
	bet       int
	worker    int
	player    int
	bets      int
	spins     int
	seed      int64
	format    string
	showpb    bool
	pprof     perf.Mode
}

type gidFlag struct{ p *spec.GID }

func (f gidFlag) String() string {
	if f.p == nil {
		return "0"
	}
	return fmt.Sprint(uint(*f.p))
}

func (f gidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.GID(uint(u))
	return nil
}

func parseFlags(args []string) (*config, error) {
	cfg := new(config)
	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	cfg.id = 1
	fset.Var(gidFlag{&cfg.id}, "game", "target game id")
	fset.StringVar(&cfg.cfgFile, "cfg", "", "simulate a single config file (.yaml/.yml/.json) instead of -game")
	fset.StringVar(&cfg.configDir, "dir", "", "extra config directory loaded with the demo games")
	fset.IntVar(&cfg.bet, "bet", 0, "bet per spin; 0 uses the game's default bet")
	fset.IntVar(&cfg.worker, "worker", 1, "number of workers")
	fset.IntVar(&cfg.player, "player", 0, "number of simulated players; 0 runs a plain machine simulation")
	fset.IntVar(&cfg.bets, "bets", 200, "initial bankroll per player, in bets")
	fset.IntVar(&cfg.spins, "spins", 1_000_000, "spins (per player when -player > 0)")
	fset.Int64Var(&cfg.seed, "seed", -1, "int64 seed; negative picks a random seed")
	fset.StringVar(&cfg.format, "format", "text", "output format: text|json|yaml")
	fset.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	pprofMode := fset.String("p", "", "pprof: '', cpu, heap, allocs")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	m, err := perf.ParseMode(*pprofMode)
	if err != nil {
		return nil, err
	}
	cfg.pprof = m
	if cfg.seed < 0 {
		cfg.seed = core.CryptoSeed()
	}
	return cfg, cfg.valid(os.Stderr)
}

func (cfg *config) valid(warn io.Writer) error {
	p := message.NewPrinter(language.English)
	if cfg.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if cfg.player < 0 {
		return errs.NewWarn("value err : player must >= 0")
	}
	if cfg.player > maxPlayers {
		p.Fprintf(warn, "too many players: %d resized to %d\n", cfg.player, maxPlayers)
		cfg.player = maxPlayers
	}
	if cfg.player > 0 && cfg.bets < 1 {
		return errs.NewWarn("value err : bets must >= 1")
	}
	if cfg.spins < 1 {
		return errs.NewWarn("value err : spins must > 0")
	}
	// 1500 轉約一小時，超過 15000 轉已是長期體驗，直接跑機台模擬即可
	if cfg.player > 0 && cfg.spins > maxSpinsPerPlayer {
		p.Fprintf(warn, "too many spins per player: %d resized to %d\n", cfg.spins, maxSpinsPerPlayer)
		cfg.spins = maxSpinsPerPlayer
	}
	if _, _, ok := stats.RenderByName(cfg.format, 0); !ok {
		return errs.Warnf("unknown format %q", cfg.format)
	}
	return nil
}

func (cfg *config) simulator() (*slotengine.Simulator, error) {
	srcs := []fs.FS{demo_configs.FS}
	if cfg.configDir != "" {
		srcs = append(srcs, os.DirFS(cfg.configDir))
	}
	e, err := slotengine.New(core.Default(), srcs...)
	if err != nil {
		return nil, err
	}
	if cfg.cfgFile == "" {
		return e.NewSimulatorWithSeed(cfg.id, cfg.seed)
	}
	data, err := os.ReadFile(cfg.cfgFile)
	if err != nil {
		return nil, errs.Wrapf(err, "read %s failed", cfg.cfgFile)
	}
	s, err := spec.GetSlotSettingByName(cfg.cfgFile, data)
	if err != nil {
		return nil, err
	}
	return e.NewSimulatorBySetting(s, cfg.seed)
}

func execute(cfg *config, out io.Writer) error {
	s, err := cfg.simulator()
	if err != nil {
		return err
	}
	setting := s.Setting()
	if cfg.bet == 0 {
		cfg.bet = setting.BetRange.Default
	}
	showpb := cfg.showpb && cfg.format == "text"

	p := message.NewPrinter(language.English)
	green, reset := "\033[1;32m", "\033[0m"
	if cfg.format == "text" {
		p.Fprintf(out, "%s[GAME:%s] [BET:%d] [WORKERS:%d] [SEED:%d]%s\n", green, setting.GameName, cfg.bet, cfg.worker, cfg.seed, reset)
	}

	if cfg.player == 0 {
		st, used, err := s.SimMP(cfg.bet, cfg.spins, cfg.worker, showpb)
		if err != nil {
			return err
		}
		rr, _, _ := stats.RenderByName(cfg.format, used)
		return st.WriteWith(out, rr)
	}

	if cfg.format == "text" {
		p.Fprintf(out, "%s[PLAYERS:%d] [BANKROLL:%d bets] [SPINS:%d]%s\n", green, cfg.player, cfg.bets, cfg.spins, reset)
	}
	st, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.bets, cfg.bet, cfg.spins, showpb)
	if err != nil {
		return err
	}
	rr, er, _ := stats.RenderByName(cfg.format, used)
	if err := st.WriteWith(out, rr); err != nil {
		return err
	}
	return er.Write(out, est)
}
