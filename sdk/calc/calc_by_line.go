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

package calc

import (
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/sdk/symbol"
	"github.com/zintix-labs/slotengine/spec"
)

// EvaluateLines 對每條 payline 計算最左連線，回傳所有中獎線（依 payline 順序）。
//
// payline 長度不等於 reel 數或列索引越界回傳 ConfigError；
// 盤面含未註冊圖標回傳 UnknownSymbolError。
func EvaluateLines(grid slot.Grid, paylines [][]int, bet int, cat *symbol.Catalog, rules Rules) ([]slot.LineWin, error) {
	if err := checkGrid(grid, cat); err != nil {
		return nil, err
	}
	return evalLines(grid, paylines, bet, cat, rules)
}

func evalLines(grid slot.Grid, paylines [][]int, bet int, cat *symbol.Catalog, rules Rules) ([]slot.LineWin, error) {
	var wins []slot.LineWin
	for idx, line := range paylines {
		if len(line) != len(grid) {
			return nil, errs.Config("payline %d: length %d, grid has %d reels", idx, len(line), len(grid))
		}
		for reel, row := range line {
			if row < 0 || row >= len(grid[reel]) {
				return nil, errs.Config("payline %d reel %d: row %d out of [0,%d)", idx, reel, row, len(grid[reel]))
			}
		}

		sym, count := leftmostRun(grid, line, rules)
		if count < spec.MinRun {
			continue
		}
		s, err := cat.Lookup(sym)
		if err != nil {
			return nil, err
		}
		pos := make([]slot.Position, count)
		for reel := 0; reel < count; reel++ {
			pos[reel] = slot.Position{Reel: reel, Row: line[reel]}
		}
		wins = append(wins, slot.LineWin{
			Payline:   idx,
			Symbol:    sym,
			Count:     count,
			Amount:    int64(s.Value) * multiplier(rules.LineMultipliers, count) * int64(bet),
			Positions: pos,
		})
	}
	return wins, nil
}

// leftmostRun 回傳從 reel 0 起的連線圖標與長度。
//
// 基準圖標從第一格開始；基準仍是 wild 時，第一個非 wild 圖標成為基準。
// 之後遇到與基準相同或 wild 的圖標延長，第一個不符即停止。全為 wild 時結果為 wild。
func leftmostRun(grid slot.Grid, line []int, rules Rules) (string, int) {
	if len(line) == 0 {
		return "", 0
	}
	ref := grid[0][line[0]]
	count := 1
	for reel := 1; reel < len(line); reel++ {
		s := grid[reel][line[reel]]
		switch {
		case rules.isWild(ref) && !rules.isWild(s):
			ref = s
		case s == ref || rules.isWild(s):
		default:
			return ref, count
		}
		count++
	}
	return ref, count
}
