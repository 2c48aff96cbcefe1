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
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/sdk/symbol"
	"github.com/zintix-labs/slotengine/spec"
)

// EvaluateScatter 計算整個盤面的 scatter 數量，與 payline 無關。
// 數量未達門檻或未設定 scatter 時回傳 nil。
func EvaluateScatter(grid slot.Grid, bet int, cat *symbol.Catalog, rules Rules) (*slot.ScatterWin, error) {
	if err := checkGrid(grid, cat); err != nil {
		return nil, err
	}
	return evalScatter(grid, bet, cat, rules)
}

func evalScatter(grid slot.Grid, bet int, cat *symbol.Catalog, rules Rules) (*slot.ScatterWin, error) {
	if rules.Scatter == "" {
		return nil, nil
	}
	var pos []slot.Position
	for reel, col := range grid {
		for row, id := range col {
			if id == rules.Scatter {
				pos = append(pos, slot.Position{Reel: reel, Row: row})
			}
		}
	}
	if len(pos) < spec.MinRun {
		return nil, nil
	}
	s, err := cat.Lookup(rules.Scatter)
	if err != nil {
		return nil, err
	}
	return &slot.ScatterWin{
		Count:         len(pos),
		Amount:        int64(s.Value) * multiplier(rules.ScatterMultipliers, len(pos)) * int64(bet),
		Positions:     pos,
		TriggersBonus: true,
	}, nil
}
