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

// Package calc 對盤面算分：payline 連線、scatter 與結果彙總。
//
// 這裡的函式都是純計算，不持有可變狀態，可從任意 goroutine 呼叫。
package calc

import (
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/sdk/symbol"
	"github.com/zintix-labs/slotengine/spec"
)

// Rules 算分所需的特殊圖標與倍數表。Wild 或 Scatter 為空字串代表不啟用。
type Rules struct {
	Wild               string
	Scatter            string
	LineMultipliers    map[int]int
	ScatterMultipliers map[int]int
}

// RulesFrom 由設定取出 Rules，與設定共用倍數表（唯讀）。
func RulesFrom(s *spec.SlotSetting) Rules {
	return Rules{
		Wild:               s.Wild,
		Scatter:            s.Scatter,
		LineMultipliers:    s.LineMultipliers,
		ScatterMultipliers: s.ScatterMultipliers,
	}
}

func (r Rules) isWild(id string) bool { return r.Wild != "" && id == r.Wild }

func multiplier(m map[int]int, n int) int64 { return int64(spec.Multiplier(m, n)) }

// Calculator 綁定一份設定的算分器：先檢查盤面，再跑連線與 scatter，最後彙總。
type Calculator struct {
	reels    int
	rows     int
	paylines [][]int
	cat      *symbol.Catalog
	rules    Rules
}

// NewCalculator 建立算分器，payline 越界或特殊圖標未註冊時回傳錯誤。
func NewCalculator(s *spec.SlotSetting, cat *symbol.Catalog) (*Calculator, error) {
	if err := spec.ValidPaylines(s.Paylines, s.ReelCount, s.RowCount); err != nil {
		return nil, err
	}
	rules := RulesFrom(s)
	for _, id := range []string{rules.Wild, rules.Scatter} {
		if id != "" && !cat.Has(id) {
			return nil, errs.UnknownSymbol(id)
		}
	}
	return &Calculator{
		reels:    s.ReelCount,
		rows:     s.RowCount,
		paylines: s.Paylines,
		cat:      cat,
		rules:    rules,
	}, nil
}

// Evaluate 對呼叫端提供的盤面算分。相同輸入永遠得到相同結果。
func (c *Calculator) Evaluate(grid slot.Grid, bet int) (slot.SpinOutcome, error) {
	reels, rows, ok := grid.Dims()
	if !ok || reels != c.reels || rows != c.rows {
		return slot.SpinOutcome{}, errs.Config("grid %dx%d does not match configured %dx%d", reels, rows, c.reels, c.rows)
	}
	if err := checkCells(grid, c.cat); err != nil {
		return slot.SpinOutcome{}, err
	}
	lines, err := evalLines(grid, c.paylines, bet, c.cat, c.rules)
	if err != nil {
		return slot.SpinOutcome{}, err
	}
	sc, err := evalScatter(grid, bet, c.cat, c.rules)
	if err != nil {
		return slot.SpinOutcome{}, err
	}
	return Aggregate(lines, sc), nil
}

// checkGrid 盤面需為矩形，且每格都已註冊。
func checkGrid(grid slot.Grid, cat *symbol.Catalog) error {
	if _, _, ok := grid.Dims(); !ok {
		return errs.Config("grid reels have different row counts")
	}
	return checkCells(grid, cat)
}

func checkCells(grid slot.Grid, cat *symbol.Catalog) error {
	for _, col := range grid {
		for _, id := range col {
			if !cat.Has(id) {
				return errs.UnknownSymbol(id)
			}
		}
	}
	return nil
}
