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

// Package gen 負責產生盤面：ReelSource 抽單一圖標，Assemble 依固定順序填滿整個盤面。
package gen

import (
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/sampler"
	"github.com/zintix-labs/slotengine/sdk/symbol"
)

// Drawer 抽出一個圖標 id。
type Drawer interface {
	Draw(r core.RAND) string
}

// ReelSource 依目錄權重抽圖標。累積權重表於建立時完成，之後唯讀。
//
// Draw 只消耗 r 的一次 UintN，結果完全由該值與目錄決定。
type ReelSource struct {
	ids   []string
	table *sampler.CumulativeTable
}

func NewReelSource(cat *symbol.Catalog) (*ReelSource, error) {
	ws := cat.Weights()
	ids := make([]string, len(ws))
	weights := make([]int, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
		weights[i] = w.Weight
	}
	tb, err := sampler.BuildCumulative(weights)
	if err != nil {
		return nil, errs.Wrap(err, "reel source: build cumulative table")
	}
	return &ReelSource{ids: ids, table: tb}, nil
}

func (s *ReelSource) Draw(r core.RAND) string {
	return s.ids[s.table.Pick(r)]
}

// TotalWeight 回傳權重總和，scripted RNG 以 [0,TotalWeight) 的值指定抽中結果。
func (s *ReelSource) TotalWeight() uint64 { return s.table.Total() }

// ValueFor 回傳會抽中 id 的最小抽樣值，找不到時 ok 為 false。測試與回放用。
func (s *ReelSource) ValueFor(id string) (uint64, bool) {
	for i, sid := range s.ids {
		if sid == id {
			return s.table.Start(i), true
		}
	}
	return 0, false
}
