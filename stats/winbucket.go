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

package stats

import (
	"fmt"
	"sort"
	"sync"
)

// lutMult 查表只建到 bet × lutMult，超過改用二分搜尋。
const lutMult = 200

// WinBuckets 以「贏分 / 下注」倍數切分區間，各下注額共用同一組邊界。
type WinBuckets struct {
	mu     sync.Mutex
	edges  []int64
	labels []string
	byBet  map[int]*WinBucket
}

// WinBucket 某個下注額對應的分桶，Index 為 O(1)（LUT 範圍內）。
type WinBucket struct {
	bounds []int64 // bet × edge
	lut    []uint8
}

// Buckets 預設分桶：[0,0], (0,1), [1,2), [2,5), ..., [500,1000), [1000,+inf)
//
// 請勿修改預設值，報表之間的分布比較依賴同一組邊界。
var Buckets = NewWinBuckets([]int64{0, 1, 2, 5, 10, 20, 50, 100, 500, 1000})

// NewWinBuckets 邊界需由 0 開始且嚴格遞增。
func NewWinBuckets(edges []int64) *WinBuckets {
	if len(edges) < 2 || edges[0] != 0 {
		panic("stats: bucket edges must start at 0 and have at least two entries")
	}
	labels := make([]string, 0, len(edges)+1)
	labels = append(labels, "[0,0]", fmt.Sprintf("(0,%d)", edges[1]))
	for i := 2; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			panic("stats: bucket edges must be strictly increasing")
		}
		labels = append(labels, fmt.Sprintf("[%d,%d)", edges[i-1], edges[i]))
	}
	labels = append(labels, fmt.Sprintf("[%d,+inf)", edges[len(edges)-1]))
	return &WinBuckets{
		edges:  edges,
		labels: labels,
		byBet:  make(map[int]*WinBucket),
	}
}

// Labels 回傳分桶標籤，長度 = 邊界數 + 1。
func (b *WinBuckets) Labels() []string {
	return b.labels
}

func (b *WinBuckets) Len() int {
	return len(b.labels)
}

// ForBet 取得（或建立）某個下注額的分桶。
func (b *WinBuckets) ForBet(bet int) *WinBucket {
	if bet < 1 {
		bet = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if wb, ok := b.byBet[bet]; ok {
		return wb
	}
	wb := b.build(bet)
	b.byBet[bet] = wb
	return wb
}

func (b *WinBuckets) build(bet int) *WinBucket {
	bounds := make([]int64, len(b.edges))
	for i, e := range b.edges {
		bounds[i] = int64(bet) * e
	}
	wb := &WinBucket{bounds: bounds, lut: make([]uint8, bet*lutMult)}
	for win := 1; win < len(wb.lut); win++ {
		wb.lut[win] = uint8(wb.search(int64(win)))
	}
	return wb
}

// Index 回傳 win 落在哪個分桶。
func (wb *WinBucket) Index(win int64) int {
	if win <= 0 {
		return 0
	}
	if win < int64(len(wb.lut)) {
		return int(wb.lut[win])
	}
	return wb.search(win)
}

// search 第一個大於 win 的邊界位置即為分桶索引。
func (wb *WinBucket) search(win int64) int {
	return sort.Search(len(wb.bounds), func(i int) bool { return wb.bounds[i] > win })
}
