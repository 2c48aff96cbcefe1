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

// Package spec 定義遊戲設定檔格式與載入時的檢查。
//
// 設定在 Init 之後視為唯讀，由 Engine 以指標注入各元件，不存在任何套件層級的可變設定。
package spec

import (
	"fmt"
	"maps"
	"math"
	"math/bits"

	"github.com/zintix-labs/slotengine/errs"
)

// GID 遊戲編號
type GID uint

// MinRun 連線與 scatter 成立所需的最少數量。
const MinRun = 3

var (
	defaultLineMultipliers    = map[int]int{3: 1, 4: 5, 5: 25}
	defaultScatterMultipliers = map[int]int{3: 2, 4: 10, 5: 50}
)

const (
	defaultBetStep        = 1
	defaultInitialBalance = 1000
	defaultBigWinTier     = 10
	defaultMegaWinTier    = 20
)

// SlotSetting 包含啟動一台機台所需的全部設定。
type SlotSetting struct {
	GameName           string      `yaml:"game_name"           json:"game_name"`
	GameID             GID         `yaml:"game_id"             json:"game_id"`
	ReelCount          int         `yaml:"reel_count"          json:"reel_count"`
	RowCount           int         `yaml:"row_count"           json:"row_count"`
	Symbols            []SymbolDef `yaml:"symbols"             json:"symbols"`
	Paylines           [][]int     `yaml:"paylines"            json:"paylines"`
	BetRange           BetRange    `yaml:"bet_range"           json:"bet_range"`
	BetStep            int         `yaml:"bet_step"            json:"bet_step"`
	InitialBalance     int64       `yaml:"initial_balance"     json:"initial_balance"`
	LineMultipliers    map[int]int `yaml:"line_multipliers"    json:"line_multipliers"`
	ScatterMultipliers map[int]int `yaml:"scatter_multipliers" json:"scatter_multipliers"`
	Wild               string      `yaml:"wild"                json:"wild"`
	Scatter            string      `yaml:"scatter"             json:"scatter"`
	WinTiers           WinTiers    `yaml:"win_tiers"           json:"win_tiers"`
	initFlag           bool
}

// SymbolDef 單一圖標：id、賠付值、抽取權重。
type SymbolDef struct {
	ID     string `yaml:"id"     json:"id"`
	Value  int    `yaml:"value"  json:"value"`
	Weight int    `yaml:"weight" json:"weight"`
}

type BetRange struct {
	Min     int `yaml:"min"     json:"min"`
	Max     int `yaml:"max"     json:"max"`
	Default int `yaml:"default" json:"default"`
}

// Contains 回傳 bet 是否落在 [Min, Max]。
func (b BetRange) Contains(bet int) bool {
	return bet >= b.Min && bet <= b.Max
}

// Clamp 將 bet 夾在 [Min, Max]。
func (b BetRange) Clamp(bet int) int {
	return min(max(bet, b.Min), b.Max)
}

// WinTiers 以「總贏分 / 下注」的倍數分級：超過 Big 為大獎，超過 Mega 為巨獎。
type WinTiers struct {
	Big  int `yaml:"big"  json:"big"`
	Mega int `yaml:"mega" json:"mega"`
}

// DefaultWinTiers 設定檔未指定 win_tiers 時的分級
func DefaultWinTiers() WinTiers {
	return WinTiers{Big: defaultBigWinTier, Mega: defaultMegaWinTier}
}

// Init 補預設值並檢查設定。重複呼叫不會重做。
func (s *SlotSetting) Init() error {
	if s.initFlag {
		return nil
	}
	s.applyDefaults()
	if err := s.valid(); err != nil {
		return err
	}
	s.initFlag = true
	return nil
}

func (s *SlotSetting) applyDefaults() {
	if s.LineMultipliers == nil {
		s.LineMultipliers = maps.Clone(defaultLineMultipliers)
	}
	if s.ScatterMultipliers == nil {
		s.ScatterMultipliers = maps.Clone(defaultScatterMultipliers)
	}
	if s.BetRange.Default == 0 {
		s.BetRange.Default = s.BetRange.Min
	}
	if s.BetStep == 0 {
		s.BetStep = defaultBetStep
	}
	if s.InitialBalance == 0 {
		s.InitialBalance = defaultInitialBalance
	}
	if s.WinTiers.Big == 0 {
		s.WinTiers.Big = defaultBigWinTier
	}
	if s.WinTiers.Mega == 0 {
		s.WinTiers.Mega = defaultMegaWinTier
	}
}

func (s *SlotSetting) valid() error {
	if s.GameName == "" {
		return errs.Config("empty game_name")
	}
	if s.ReelCount <= 0 || s.RowCount <= 0 {
		return errs.Config("invalid grid dimensions: reels=%d rows=%d", s.ReelCount, s.RowCount)
	}
	if err := s.validSymbols(); err != nil {
		return err
	}
	if err := ValidPaylines(s.Paylines, s.ReelCount, s.RowCount); err != nil {
		return err
	}

	br := s.BetRange
	if br.Min < 1 || br.Max < br.Min {
		return errs.Config("invalid bet_range: min=%d max=%d", br.Min, br.Max)
	}
	if !br.Contains(br.Default) {
		return errs.Config("bet_range default %d outside [%d, %d]", br.Default, br.Min, br.Max)
	}
	if s.BetStep < 1 {
		return errs.Config("invalid bet_step %d", s.BetStep)
	}
	if s.InitialBalance < 0 {
		return errs.Config("negative initial_balance %d", s.InitialBalance)
	}

	for k, v := range s.LineMultipliers {
		if k < 1 || v < 1 {
			return errs.Config("invalid line multiplier %d:%d", k, v)
		}
	}
	for k, v := range s.ScatterMultipliers {
		if k < 1 || v < 1 {
			return errs.Config("invalid scatter multiplier %d:%d", k, v)
		}
	}
	if s.WinTiers.Big < 1 || s.WinTiers.Mega < s.WinTiers.Big {
		return errs.Config("invalid win_tiers: big=%d mega=%d", s.WinTiers.Big, s.WinTiers.Mega)
	}
	return s.validPayoutBound()
}

// validPayoutBound 確認最大單筆派彩 value × multiplier × bet 不會溢位 int64。
func (s *SlotSetting) validPayoutBound() error {
	maxValue, scatterValue := 0, 0
	for _, sym := range s.Symbols {
		maxValue = max(maxValue, sym.Value)
		if sym.ID == s.Scatter {
			scatterValue = sym.Value
		}
	}
	if !payoutFits(maxValue, maxMultiplier(s.LineMultipliers), s.BetRange.Max) {
		return errs.Config("line payout overflows: value=%d multiplier=%d bet=%d",
			maxValue, maxMultiplier(s.LineMultipliers), s.BetRange.Max)
	}
	if s.Scatter != "" && !payoutFits(scatterValue, maxMultiplier(s.ScatterMultipliers), s.BetRange.Max) {
		return errs.Config("scatter payout overflows: value=%d multiplier=%d bet=%d",
			scatterValue, maxMultiplier(s.ScatterMultipliers), s.BetRange.Max)
	}
	return nil
}

// maxMultiplier 未設定的長度以 1 計，所以下限為 1。
func maxMultiplier(m map[int]int) int {
	out := 1
	for _, v := range m {
		out = max(out, v)
	}
	return out
}

// payoutFits 三個參數皆為正數（valid 已先檢查）。
func payoutFits(value, mult, bet int) bool {
	hi, lo := bits.Mul64(uint64(value), uint64(mult))
	if hi != 0 || lo > math.MaxInt64 {
		return false
	}
	hi, lo = bits.Mul64(lo, uint64(bet))
	return hi == 0 && lo <= math.MaxInt64
}

func (s *SlotSetting) validSymbols() error {
	if len(s.Symbols) == 0 {
		return errs.Config("empty symbols")
	}
	seen := make(map[string]struct{}, len(s.Symbols))
	for i, sym := range s.Symbols {
		if sym.ID == "" {
			return errs.Config("symbols[%d]: empty id", i)
		}
		if _, dup := seen[sym.ID]; dup {
			return errs.Config("duplicated symbol id %q", sym.ID)
		}
		seen[sym.ID] = struct{}{}
		if sym.Value < 1 || sym.Weight < 1 {
			return errs.Config("symbol %q: value and weight must be positive", sym.ID)
		}
	}
	for _, ref := range []string{s.Wild, s.Scatter} {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; !ok {
			return errs.UnknownSymbol(ref)
		}
	}
	if s.Wild != "" && s.Wild == s.Scatter {
		return errs.Config("wild and scatter must differ, both %q", s.Wild)
	}
	return nil
}

// ValidPaylines 檢查每條線長度等於 reelCount 且列索引落在 [0,rowCount)。
func ValidPaylines(lines [][]int, reelCount, rowCount int) error {
	if len(lines) == 0 {
		return errs.Config("empty paylines")
	}
	for i, line := range lines {
		if len(line) != reelCount {
			return errs.Config("payline %d: length %d, want %d", i, len(line), reelCount)
		}
		for reel, row := range line {
			if row < 0 || row >= rowCount {
				return errs.Config("payline %d reel %d: row %d out of [0,%d)", i, reel, row, rowCount)
			}
		}
	}
	return nil
}

// Multiplier 回傳倍數表中長度 n 的倍數，未設定時為 1。連線與 scatter 共用。
func Multiplier(m map[int]int, n int) int {
	if v, ok := m[n]; ok {
		return v
	}
	return 1
}

func (s *SlotSetting) String() string {
	return fmt.Sprintf("%s(gid=%d %dx%d lines=%d)", s.GameName, s.GameID, s.ReelCount, s.RowCount, len(s.Paylines))
}
