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

// Package recorder 累積模擬結果；紀錄時只處理整數，Done 時一次換算成 stats.StatReport。
package recorder

import (
	"sort"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
	"github.com/zintix-labs/slotengine/stats"
)

// SpinRecorder 遊戲紀錄員，非並發安全：每個 worker 各自持有一份，結束後 Merge。
type SpinRecorder struct {
	GameName string
	GameId   spec.GID
	Bet      int
	InitBets int
	Tiers    spec.WinTiers
	Basic    *BasicRecord
	Dist     *DistRecord
	Player   *PlayerRecord
	Symbols  map[string]*SymbolRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet        int64
	TotalWin        int64
	LineWin         int64
	ScatterWin      int64
	TotalWinSqSum   float64 // 平方和，以 float64 累計避免溢位
	LineWinSqSum    float64
	ScatterWinSqSum float64
	Trigger         int
	BigWins         int
	MegaWins        int
	Rounds          int
}

// DistRecord 分數區間落點統計
type DistRecord struct {
	Bucket            *stats.WinBucket
	TotalWinCollect   []int
	LineWinCollect    []int
	ScatterWinCollect []int
}

// SymbolRecord 圖標在連線獎中的命中次數與贏分
type SymbolRecord struct {
	Hits int
	Win  int64
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	leaveLine   int64
	InitBalance int64
	Balance     int64
	MaxBalance  int64
	MinBalance  int64
	Bust        bool
	Cashout     bool
}

// NewSpinRecorder initBets 為玩家帶入的下注次數（本金 = bet × initBets），0 代表不模擬玩家。
func NewSpinRecorder(name string, id spec.GID, bet int, initBets int, tiers spec.WinTiers) (*SpinRecorder, error) {
	if bet <= 0 {
		return nil, errs.InvalidBet(bet, 1, bet)
	}
	if initBets < 0 {
		return nil, errs.Fatalf("init bets must not be negative, got: %d", initBets)
	}
	return &SpinRecorder{
		GameName: name,
		GameId:   id,
		Bet:      bet,
		InitBets: initBets,
		Tiers:    tiers,
		Basic:    new(BasicRecord),
		Dist:     newDistRecord(bet),
		Player:   newPlayerRecord(bet, initBets),
		Symbols:  make(map[string]*SymbolRecord),
	}, nil
}

// MergeSpinRecorder 合併多個 worker 的紀錄。玩家紀錄不合併，各玩家應個別 Done。
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty input")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(r0.GameName, r0.GameId, r0.Bet, r0.InitBets, r0.Tiers)
	if err != nil {
		return nil, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName || v.GameId != r0.GameId {
			return nil, errs.NewFatal("merge spin record err : different game")
		}
		if v.Bet != r0.Bet {
			return nil, errs.NewFatal("merge spin record err : different bet")
		}
		b := s.Basic
		b.TotalBet += v.Basic.TotalBet
		b.TotalWin += v.Basic.TotalWin
		b.LineWin += v.Basic.LineWin
		b.ScatterWin += v.Basic.ScatterWin
		b.TotalWinSqSum += v.Basic.TotalWinSqSum
		b.LineWinSqSum += v.Basic.LineWinSqSum
		b.ScatterWinSqSum += v.Basic.ScatterWinSqSum
		b.Trigger += v.Basic.Trigger
		b.BigWins += v.Basic.BigWins
		b.MegaWins += v.Basic.MegaWins
		b.Rounds += v.Basic.Rounds

		for i := range v.Dist.TotalWinCollect {
			s.Dist.TotalWinCollect[i] += v.Dist.TotalWinCollect[i]
			s.Dist.LineWinCollect[i] += v.Dist.LineWinCollect[i]
			s.Dist.ScatterWinCollect[i] += v.Dist.ScatterWinCollect[i]
		}
		for id, sr := range v.Symbols {
			s.symbol(id).Hits += sr.Hits
			s.symbol(id).Win += sr.Win
		}
	}
	return s, nil
}

// Record 以單次 SpinOutcome 更新統計（不含玩家）
func (s *SpinRecorder) Record(out *slot.SpinOutcome) {
	s.recordBasic(out)
	s.recordDist(out)
	s.recordSymbols(out)
}

// RecordWithPlayer 在 Record 的基礎上更新玩家餘額，回傳玩家是否離場。
// 餘額已不足一注時不紀錄，直接回傳 true。
func (s *SpinRecorder) RecordWithPlayer(out *slot.SpinOutcome) bool {
	if s.Player.Balance < int64(s.Bet) {
		s.Player.Bust = true
		return true
	}
	s.Record(out)
	return s.recordPlayer(out)
}

// CanAfford 玩家是否還付得起下一注。
func (s *SpinRecorder) CanAfford() bool {
	return s.Player.Balance >= int64(s.Bet)
}

func (s *SpinRecorder) Done() *stats.StatReport {
	bf := float64(s.Bet)
	bb := bf * bf

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			GameId:      s.GameId,
			Bet:         s.Bet,
			TotalBet:    s.Basic.TotalBet,
			TotalWin:    s.Basic.TotalWin,
			LineWin:     s.Basic.LineWin,
			ScatterWin:  s.Basic.ScatterWin,
			Trigger:     s.Basic.Trigger,
			BigWins:     s.Basic.BigWins,
			MegaWins:    s.Basic.MegaWins,
			NoWinRounds: s.Dist.TotalWinCollect[0],
			Rounds:      s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:        float64(s.Basic.TotalWin) / bf,
			LineWinMult:         float64(s.Basic.LineWin) / bf,
			ScatterWinMult:      float64(s.Basic.ScatterWin) / bf,
			TotalWinMultSqSum:   s.Basic.TotalWinSqSum / bb,
			LineWinMultSqSum:    s.Basic.LineWinSqSum / bb,
			ScatterWinMultSqSum: s.Basic.ScatterWinSqSum / bb,
		},
		Dist: &stats.DistReport{
			WinBucket:         stats.Buckets.Labels(),
			TotalWinCollect:   append([]int(nil), s.Dist.TotalWinCollect...),
			LineWinCollect:    append([]int(nil), s.Dist.LineWinCollect...),
			ScatterWinCollect: append([]int(nil), s.Dist.ScatterWinCollect...),
		},
		Symbols: s.symbolReports(),
	}
	if s.InitBets > 0 {
		report.Player = &stats.PlayerReport{
			InitBalance: s.Player.InitBalance,
			Balance:     s.Player.Balance,
			MaxBalance:  s.Player.MaxBalance,
			MinBalance:  s.Player.MinBalance,
			Bust:        s.Player.Bust,
			Cashout:     s.Player.Cashout,
		}
	}
	report.Done()
	return report
}

func (s *SpinRecorder) recordBasic(out *slot.SpinOutcome) {
	tw := out.Total
	lw := out.LineTotal()
	sw := out.ScatterTotal()

	b := s.Basic
	b.TotalBet += int64(s.Bet)
	b.TotalWin += tw
	b.LineWin += lw
	b.ScatterWin += sw
	b.TotalWinSqSum += float64(tw) * float64(tw)
	b.LineWinSqSum += float64(lw) * float64(lw)
	b.ScatterWinSqSum += float64(sw) * float64(sw)
	if out.TriggersBonus() {
		b.Trigger++
	}
	switch slot.ClassifyWin(tw, int64(s.Bet), s.Tiers) {
	case slot.TierBig:
		b.BigWins++
	case slot.TierMega:
		b.MegaWins++
	}
	b.Rounds++
}

func (s *SpinRecorder) recordDist(out *slot.SpinOutcome) {
	d := s.Dist
	d.TotalWinCollect[d.Bucket.Index(out.Total)]++
	d.LineWinCollect[d.Bucket.Index(out.LineTotal())]++
	d.ScatterWinCollect[d.Bucket.Index(out.ScatterTotal())]++
}

func (s *SpinRecorder) recordSymbols(out *slot.SpinOutcome) {
	for _, lw := range out.Lines {
		sr := s.symbol(lw.Symbol)
		sr.Hits++
		sr.Win += lw.Amount
	}
}

func (s *SpinRecorder) symbol(id string) *SymbolRecord {
	sr, ok := s.Symbols[id]
	if !ok {
		sr = new(SymbolRecord)
		s.Symbols[id] = sr
	}
	return sr
}

// symbolReports 依贏分由大到小排序，同分依 id。
func (s *SpinRecorder) symbolReports() []stats.SymbolReport {
	out := make([]stats.SymbolReport, 0, len(s.Symbols))
	for id, sr := range s.Symbols {
		out = append(out, stats.SymbolReport{Symbol: id, Hits: sr.Hits, Win: sr.Win})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Win != out[j].Win {
			return out[i].Win > out[j].Win
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func (s *SpinRecorder) recordPlayer(out *slot.SpinOutcome) bool {
	p := s.Player
	b := int64(s.Bet)

	p.Balance += out.Total - b
	p.MaxBalance = max(p.MaxBalance, p.Balance)
	p.MinBalance = min(p.MinBalance, p.Balance)

	leave := false
	if p.Balance < b {
		p.Bust = true
		leave = true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newDistRecord(bet int) *DistRecord {
	n := stats.Buckets.Len()
	return &DistRecord{
		Bucket:            stats.Buckets.ForBet(bet),
		TotalWinCollect:   make([]int, n),
		LineWinCollect:    make([]int, n),
		ScatterWinCollect: make([]int, n),
	}
}

func newPlayerRecord(bet int, initBets int) *PlayerRecord {
	b := int64(bet) * int64(initBets) // 初始帶入總金額
	return &PlayerRecord{
		InitBalance: b,
		Balance:     b,
		MaxBalance:  b,
		MinBalance:  b,
		leaveLine:   3 * b, // 離場條件: 3 倍本金
	}
}
