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

package dto

import (
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/slotengine/corefmt"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

// SpinRequest 單局請求。start_b64u 缺省為新局；有值則從該快照回放。
type SpinRequest struct {
	Bet       int    `json:"bet"`
	StartB64U string `json:"start_b64u,omitempty"`
}

// DecodeSpinRequest 支援 GET（query: bet, start_b64u）與 POST（JSON body）。
func DecodeSpinRequest(r *http.Request) (*SpinRequest, error) {
	req := new(SpinRequest)
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		v, err := queryInt(q, "bet", true)
		if err != nil {
			return nil, err
		}
		req.Bet = v
		req.StartB64U = q.Get("start_b64u")
		return req, nil
	case http.MethodPost:
		if err := DecodeJSON(r.Body, req, MaxBody); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.Warnf("method %s not allowed", r.Method)
	}
}

// StartState 解出回放用的快照；新局回傳 nil。
func (sr *SpinRequest) StartState() ([]byte, error) {
	if sr.StartB64U == "" {
		return nil, nil
	}
	return corefmt.DecodeState(sr.StartB64U)
}

// EvaluateRequest 對呼叫端提供的盤面算分，grid 為 reel-major。
type EvaluateRequest struct {
	Bet  int       `json:"bet"`
	Grid slot.Grid `json:"grid"`
}

func DecodeEvaluateRequest(r *http.Request) (*EvaluateRequest, error) {
	req := new(EvaluateRequest)
	if err := DecodeJSON(r.Body, req, MaxBody); err != nil {
		return nil, err
	}
	if len(req.Grid) == 0 {
		return nil, errs.NewWarn("grid is required")
	}
	return req, nil
}

// SimRequest 模擬請求。players > 0 時改跑玩家模擬（init_bets 必填）。
type SimRequest struct {
	Bet      int    `json:"bet"`
	Rounds   int    `json:"rounds"`
	Workers  int    `json:"workers,omitempty"`
	Players  int    `json:"players,omitempty"`
	InitBets int    `json:"init_bets,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
}

func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	req := new(SimRequest)
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		var err error
		if req.Bet, err = queryInt(q, "bet", true); err != nil {
			return nil, err
		}
		if req.Rounds, err = queryInt(q, "rounds", true); err != nil {
			return nil, err
		}
		if req.Workers, err = queryInt(q, "workers", false); err != nil {
			return nil, err
		}
		if req.Players, err = queryInt(q, "players", false); err != nil {
			return nil, err
		}
		if req.InitBets, err = queryInt(q, "init_bets", false); err != nil {
			return nil, err
		}
		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn("seed must be int64")
			}
			req.Seed = &v
		}
		return req, nil
	case http.MethodPost:
		if err := DecodeJSON(r.Body, req, MaxBody); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.Warnf("method %s not allowed", r.Method)
	}
}

// SimLimits 服務端允許的模擬規模
type SimLimits struct {
	MaxRounds  int
	MaxPlayers int
	MaxWorkers int
}

// Valid 檢查參數並補上預設 workers。
func (sr *SimRequest) Valid(lim SimLimits) error {
	if sr.Rounds < 1 || sr.Rounds > lim.MaxRounds {
		return errs.Warnf("rounds must be between 1 and %d", lim.MaxRounds)
	}
	if sr.Workers == 0 {
		sr.Workers = 1
	}
	if sr.Workers < 1 || sr.Workers > lim.MaxWorkers {
		return errs.Warnf("workers must be between 1 and %d", lim.MaxWorkers)
	}
	if sr.Players < 0 || sr.Players > lim.MaxPlayers {
		return errs.Warnf("players must be between 0 and %d", lim.MaxPlayers)
	}
	if sr.Players > 0 && sr.InitBets < 1 {
		return errs.NewWarn("init_bets must be at least 1 when players is set")
	}
	return nil
}

// SimByConfigRequest 以請求內的設定（JSON）試算，不需先載入目錄。
type SimByConfigRequest struct {
	SimRequest
	Config jsoniter.RawMessage `json:"cfg"`
}

// MaxConfigBody 帶設定的模擬請求 body 上限
const MaxConfigBody = 5 << 20

func DecodeSimByConfigRequest(r *http.Request) (*SimByConfigRequest, error) {
	req := new(SimByConfigRequest)
	if err := DecodeJSON(r.Body, req, MaxConfigBody); err != nil {
		return nil, err
	}
	if len(req.Config) == 0 {
		return nil, errs.NewWarn("cfg is required")
	}
	return req, nil
}

// StatRequest 由外部提供的逐局贏分重算統計報表，三個陣列以最短者對齊。
type StatRequest struct {
	GameName    string  `json:"game_name"`
	Bet         int     `json:"bet"`
	LineWins    []int64 `json:"line_wins"`
	ScatterWins []int64 `json:"scatter_wins"`
	Triggers    []bool  `json:"triggers"`
}

func DecodeStatRequest(r *http.Request) (*StatRequest, error) {
	req := new(StatRequest)
	if err := DecodeJSON(r.Body, req, MaxConfigBody); err != nil {
		return nil, err
	}
	if req.Bet < 1 {
		return nil, errs.InvalidBet(req.Bet, 1, req.Bet)
	}
	if req.Rounds() < 1 {
		return nil, errs.NewWarn("round must > 0")
	}
	return req, nil
}

func (sr *StatRequest) Rounds() int {
	return min(len(sr.LineWins), len(sr.ScatterWins), len(sr.Triggers))
}

// Outcome 第 i 局的彙總結果
func (sr *StatRequest) Outcome(i int) slot.SpinOutcome {
	out := slot.SpinOutcome{Total: sr.LineWins[i] + sr.ScatterWins[i]}
	if sr.LineWins[i] > 0 {
		out.Lines = []slot.LineWin{{Symbol: "*", Amount: sr.LineWins[i]}}
	}
	if sr.ScatterWins[i] > 0 || sr.Triggers[i] {
		out.Scatter = &slot.ScatterWin{Amount: sr.ScatterWins[i], TriggersBonus: sr.Triggers[i]}
	}
	return out
}

// SessionRequest 建立玩家 session
type SessionRequest struct {
	GID spec.GID `json:"gid"`
}

func DecodeSessionRequest(r *http.Request) (*SessionRequest, error) {
	req := new(SessionRequest)
	if err := DecodeJSON(r.Body, req, MaxBody); err != nil {
		return nil, err
	}
	return req, nil
}

// BetChange 解析 /bet/{dir}：up、down 或指定的下注額。
type BetChange struct {
	Step  int // +1 / -1；0 代表指定 Value
	Value int
}

func ParseBetChange(dir string) (BetChange, error) {
	switch dir {
	case "up", "inc":
		return BetChange{Step: 1}, nil
	case "down", "dec":
		return BetChange{Step: -1}, nil
	}
	v, err := strconv.Atoi(dir)
	if err != nil {
		return BetChange{}, errs.Warnf("bet direction must be up, down or an integer, got %q", dir)
	}
	return BetChange{Value: v}, nil
}

func queryInt(q url.Values, key string, required bool) (int, error) {
	s := q.Get(key)
	if s == "" {
		if required {
			return 0, errs.Warnf("%s is required", key)
		}
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Warnf("%s must be integer", key)
	}
	return v, nil
}
