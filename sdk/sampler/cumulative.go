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

package sampler

import (
	"math"
	"sort"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
)

// CumulativeTable 累積權重表
//
// 權重 [3,5,0,2] 建成 cum = [3,8,8,10]，total = 10。
// 抽樣時取 u ∈ [0,total)，回傳第一個 cum[i] > u 的索引：
// u ∈ [0,3) → 0，u ∈ [3,8) → 1，u ∈ [8,10) → 3。權重 0 的項目永遠不會被抽中。
//
// 建表 O(n)、記憶體 O(n)，抽樣一次 UintN 加一次二分搜尋 O(log n)。
// 建好後唯讀，可在多個 goroutine 間共用。
type CumulativeTable struct {
	cum   []uint64
	total uint64
}

// BuildCumulative 依權重建表。負權重、總和為 0 或總和溢位時回傳 ConfigError。
func BuildCumulative[T Integers](weights []T) (*CumulativeTable, error) {
	if len(weights) == 0 {
		return nil, errs.Config("cumulative table: empty weights")
	}
	cum := make([]uint64, len(weights))
	var acc uint64
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Config("cumulative table: negative weight at %d", i)
		}
		uw := uint64(w)
		if uw > math.MaxInt64 || acc > math.MaxInt64-uw {
			return nil, errs.Config("cumulative table: weight sum overflow at %d", i)
		}
		acc += uw
		cum[i] = acc
	}
	if acc == 0 {
		return nil, errs.Config("cumulative table: all weights are zero")
	}
	return &CumulativeTable{cum: cum, total: acc}, nil
}

// Total 回傳權重總和。
func (t *CumulativeTable) Total() uint64 { return t.total }

// Len 回傳項目數。
func (t *CumulativeTable) Len() int { return len(t.cum) }

// Start 回傳索引 i 的區間起點，即 [Start(i), cum[i]) 內的值都會抽中 i。
func (t *CumulativeTable) Start(i int) uint64 {
	if i <= 0 {
		return 0
	}
	return t.cum[i-1]
}

// Index 回傳第一個累積權重大於 u 的索引。u 必須落在 [0,Total)。
func (t *CumulativeTable) Index(u uint64) int {
	return sort.Search(len(t.cum), func(i int) bool { return t.cum[i] > u })
}

// Pick 從 r 取一次 [0,Total) 的值並回傳對應索引。
func (t *CumulativeTable) Pick(r core.RAND) int {
	return t.Index(uint64(r.UintN(uint(t.total))))
}
