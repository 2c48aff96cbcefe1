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

package slotengine

import (
	"sync"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/calc"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/gen"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/sdk/symbol"
	"github.com/zintix-labs/slotengine/spec"
)

// Machine 一台可對外 Spin 的機台：持有一條 RNG 串流與該遊戲的算分元件。
//
// 並發語意：RNG 串流以 mu 保護，同一台 Machine 可被多個 goroutine 呼叫，但會序列化。
// 需要平行吞吐時，由 MachinePool 或 Simulator 建立多台 Machine。
// 設定、目錄、reel source 與 calculator 皆為唯讀，可在多台機台間共用。
type Machine struct {
	setting  *spec.SlotSetting
	cat      *symbol.Catalog
	src      *gen.ReelSource
	calc     *calc.Calculator
	core     *core.Core
	mu       sync.Mutex
	initseed int64
}

// parts 是同一份設定下所有機台共用的唯讀元件。
type parts struct {
	setting *spec.SlotSetting
	cat     *symbol.Catalog
	src     *gen.ReelSource
	calc    *calc.Calculator
}

func newParts(s *spec.SlotSetting) (*parts, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	cat, err := symbol.NewCatalog(s.Symbols)
	if err != nil {
		return nil, err
	}
	src, err := gen.NewReelSource(cat)
	if err != nil {
		return nil, err
	}
	c, err := calc.NewCalculator(s, cat)
	if err != nil {
		return nil, err
	}
	return &parts{setting: s, cat: cat, src: src, calc: c}, nil
}

func (p *parts) newMachine(rng core.PRNG, seed int64) *Machine {
	return &Machine{
		setting:  p.setting,
		cat:      p.cat,
		src:      p.src,
		calc:     p.calc,
		core:     core.New(rng),
		initseed: seed,
	}
}

// NewMachine 以外部提供的 PRNG 建立機台。測試可注入 core.Scripted 重現固定盤面。
func NewMachine(s *spec.SlotSetting, rng core.PRNG) (*Machine, error) {
	if rng == nil {
		return nil, errs.Config("machine: nil rng")
	}
	p, err := newParts(s)
	if err != nil {
		return nil, err
	}
	return p.newMachine(rng, 0), nil
}

// Spin 檢查下注後抽盤面、算分並回傳結果。
//
// 下注不在 bet range 內時回傳 InvalidBetError，且不會消耗任何亂數。
func (m *Machine) Spin(bet int) (slot.SpinResult, error) {
	if err := m.validBet(bet); err != nil {
		return slot.SpinResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spinLocked(bet)
}

// Replay 從指定的 RNG 狀態重跑一局，結束後還原機台原本的 RNG 狀態。
func (m *Machine) Replay(state []byte, bet int) (slot.SpinResult, error) {
	if err := m.validBet(bet); err != nil {
		return slot.SpinResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	keep, err := m.core.Snapshot()
	if err != nil {
		return slot.SpinResult{}, errs.Wrap(err, "replay: snapshot current state")
	}
	if err := m.core.Restore(state); err != nil {
		return slot.SpinResult{}, errs.Warnf("replay: invalid rng state: %v", err)
	}
	res, spinErr := m.spinLocked(bet)
	if err := m.core.Restore(keep); err != nil {
		return slot.SpinResult{}, errs.Wrap(err, "replay: restore rng state")
	}
	return res, spinErr
}

func (m *Machine) spinLocked(bet int) (slot.SpinResult, error) {
	start, err := m.core.Snapshot()
	if err != nil {
		return slot.SpinResult{}, errs.Wrap(err, "spin: snapshot before draw")
	}
	grid := gen.Assemble(m.setting.ReelCount, m.setting.RowCount, m.src, m.core)
	out, err := m.calc.Evaluate(grid, bet)
	if err != nil {
		return slot.SpinResult{}, err
	}
	after, err := m.core.Snapshot()
	if err != nil {
		return slot.SpinResult{}, errs.Wrap(err, "spin: snapshot after draw")
	}
	return slot.SpinResult{
		GameID:     m.setting.GameID,
		GameName:   m.setting.GameName,
		Bet:        bet,
		Grid:       grid,
		Outcome:    out,
		Tier:       slot.ClassifyWin(out.Total, int64(bet), m.setting.WinTiers),
		StartState: start,
		AfterState: after,
	}, nil
}

// spinInternal 模擬器熱路徑：跳過下注檢查與快照。呼叫端需保證 bet 合法且獨占機台。
func (m *Machine) spinInternal(bet int) (slot.Grid, slot.SpinOutcome, error) {
	grid := gen.Assemble(m.setting.ReelCount, m.setting.RowCount, m.src, m.core)
	out, err := m.calc.Evaluate(grid, bet)
	return grid, out, err
}

// Evaluate 對呼叫端提供的盤面算分，不碰 RNG，可任意並發呼叫。
func (m *Machine) Evaluate(grid slot.Grid, bet int) (slot.SpinOutcome, error) {
	if err := m.validBet(bet); err != nil {
		return slot.SpinOutcome{}, err
	}
	return m.calc.Evaluate(grid, bet)
}

func (m *Machine) validBet(bet int) error {
	br := m.setting.BetRange
	if !br.Contains(bet) {
		return errs.InvalidBet(bet, br.Min, br.Max)
	}
	return nil
}

// SnapshotRNG 取得 RNG 狀態。
func (m *Machine) SnapshotRNG() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Snapshot()
}

// RestoreRNG 還原 RNG 狀態。
func (m *Machine) RestoreRNG(state []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.core.Restore(state)
}

func (m *Machine) Setting() *spec.SlotSetting { return m.setting }

func (m *Machine) Catalog() *symbol.Catalog { return m.cat }

// Seed 回傳建立時的 seed；以外部 PRNG 建立時為 0。
func (m *Machine) Seed() int64 { return m.initseed }
