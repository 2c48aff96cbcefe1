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

// Package slot 定義一次 spin 的資料模型：盤面、連線獎、scatter 獎與結果彙總。
//
// 所有型別皆為值物件，每次 spin 重新建立，建立後不再修改。
package slot

import (
	"strings"

	"github.com/zintix-labs/slotengine/spec"
)

// Grid 盤面，reel-major：Grid[reel][row]。
type Grid [][]string

// NewGrid 建立 reels × rows 的空盤面。
func NewGrid(reels, rows int) Grid {
	g := make(Grid, reels)
	cells := make([]string, reels*rows)
	for r := range g {
		g[r] = cells[r*rows : (r+1)*rows : (r+1)*rows]
	}
	return g
}

// Dims 回傳 (reels, rows)；各 reel 列數不一致時 ok 為 false。
func (g Grid) Dims() (reels, rows int, ok bool) {
	reels = len(g)
	if reels == 0 {
		return 0, 0, true
	}
	rows = len(g[0])
	for _, col := range g[1:] {
		if len(col) != rows {
			return reels, rows, false
		}
	}
	return reels, rows, true
}

func (g Grid) Clone() Grid {
	reels, rows, _ := g.Dims()
	out := NewGrid(reels, rows)
	for r := range g {
		out[r] = append(out[r][:0], g[r]...)
	}
	return out
}

// String 依列輸出，方便日誌與除錯。
func (g Grid) String() string {
	_, rows, _ := g.Dims()
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for reel := range g {
			if reel > 0 {
				sb.WriteByte(' ')
			}
			if row < len(g[reel]) {
				sb.WriteString(g[reel][row])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type Position struct {
	Reel int `json:"reel" yaml:"reel"`
	Row  int `json:"row"  yaml:"row"`
}

// LineWin 單條 payline 的中獎。
type LineWin struct {
	Payline   int        `json:"payline"`
	Symbol    string     `json:"symbol"`
	Count     int        `json:"count"`
	Amount    int64      `json:"amount"`
	Positions []Position `json:"positions"`
}

// ScatterWin scatter 中獎，數量達門檻即觸發 bonus。
type ScatterWin struct {
	Count         int        `json:"count"`
	Amount        int64      `json:"amount"`
	Positions     []Position `json:"positions"`
	TriggersBonus bool       `json:"triggers_bonus"`
}

// SpinOutcome 一次 spin 的彙總結果。Scatter 為 nil 代表沒有 scatter 獎。
type SpinOutcome struct {
	Lines   []LineWin   `json:"lines"`
	Scatter *ScatterWin `json:"scatter,omitempty"`
	Total   int64       `json:"total"`
}

// LineTotal 回傳所有連線獎總和。
func (o SpinOutcome) LineTotal() int64 {
	var sum int64
	for _, lw := range o.Lines {
		sum += lw.Amount
	}
	return sum
}

// ScatterTotal 回傳 scatter 獎金額，沒有時為 0。
func (o SpinOutcome) ScatterTotal() int64 {
	if o.Scatter == nil {
		return 0
	}
	return o.Scatter.Amount
}

// TriggersBonus 回傳本次是否觸發 bonus。
func (o SpinOutcome) TriggersBonus() bool {
	return o.Scatter != nil && o.Scatter.TriggersBonus
}

// WinTier 依總贏分相對下注的倍數分級，供表現層選擇演出。
type WinTier string

const (
	TierNone WinTier = "none"
	TierWin  WinTier = "win"
	TierBig  WinTier = "big"
	TierMega WinTier = "mega"
)

// ClassifyWin 超過 bet×Mega 為 mega，超過 bet×Big 為 big，其餘有贏分為 win。
func ClassifyWin(total, bet int64, tiers spec.WinTiers) WinTier {
	switch {
	case total <= 0:
		return TierNone
	case total > bet*int64(tiers.Mega):
		return TierMega
	case total > bet*int64(tiers.Big):
		return TierBig
	default:
		return TierWin
	}
}
