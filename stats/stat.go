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

// Package stats 把模擬器累積的整數計數整理成報表：RTP、命中率、連線 / scatter 貢獻、
// 分桶分布與玩家體驗估計，並提供文字、JSON、YAML 輸出。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/slotengine/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 遊戲統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Dist    *DistReport    `json:"Dist"`
	Symbols []SymbolReport `json:"Symbols,omitempty"`
	Player  *PlayerReport  `json:"Player,omitempty"`
	isDone  bool
}

type SummaryReport struct {
	GameName    string   `json:"GameName"`
	GameId      spec.GID `json:"GameId"`
	Bet         int      `json:"Bet"`
	TotalBet    int64    `json:"TotalBet"`
	TotalWin    int64    `json:"TotalWin"`
	LineWin     int64    `json:"LineWin"`
	ScatterWin  int64    `json:"ScatterWin"`
	RTP         float64  `json:"RTP"`
	RtpCI       CI       `json:"RtpCI"`
	LineRTP     float64  `json:"LineRTP"`
	ScatterRTP  float64  `json:"ScatterRTP"`
	Std         float64  `json:"Std"`
	Cv          float64  `json:"Cv"`
	Trigger     int      `json:"Trigger"` // scatter 觸發 bonus 次數
	TriggerRate float64  `json:"TriggerRate"`
	BigWins     int      `json:"BigWins"`
	MegaWins    int      `json:"MegaWins"`
	NoWinRounds int      `json:"NoWinRounds"`
	HitRate     float64  `json:"HitRate"`
	Rounds      int      `json:"Rounds"`
}

// MultReport 贏倍統計（贏分 / bet）
//
// 紀錄時只累計整數，Done 時才換算成倍數。
type MultReport struct {
	TotalWinMult        float64 `json:"TotalWinMult"`
	LineWinMult         float64 `json:"LineWinMult"`
	ScatterWinMult      float64 `json:"ScatterWinMult"`
	TotalWinMultSqSum   float64 `json:"TotalWinMultSqSum"` // 平方和
	LineWinMultSqSum    float64 `json:"LineWinMultSqSum"`
	ScatterWinMultSqSum float64 `json:"ScatterWinMultSqSum"`
}

// DistReport 分數區間落點統計
type DistReport struct {
	WinBucket         []string  `json:"WinBucket"`
	TotalWinCollect   []int     `json:"TotalWinCollect"`
	LineWinCollect    []int     `json:"LineWinCollect"`
	ScatterWinCollect []int     `json:"ScatterWinCollect"`
	TotalWinDist      []float64 `json:"TotalWinDist"`
	LineWinDist       []float64 `json:"LineWinDist"`
	ScatterWinDist    []float64 `json:"ScatterWinDist"`
}

// SymbolReport 單一圖標在連線獎中的貢獻
type SymbolReport struct {
	Symbol string  `json:"Symbol"`
	Hits   int     `json:"Hits"`
	Win    int64   `json:"Win"`
	RTP    float64 `json:"RTP"`
}

// PlayerReport 玩家統計
//
// 需使用 RecordWithPlayer 才會統計
type PlayerReport struct {
	InitBalance int64 `json:"InitBalance"`
	Balance     int64 `json:"Balance"`
	MaxBalance  int64 `json:"MaxBalance"`
	MinBalance  int64 `json:"MinBalance"`
	Bust        bool  `json:"Bust"`
	Cashout     bool  `json:"Cashout"`
	Alive       bool  `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記，重複呼叫無作用。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	if s.Summary.TotalBet > 0 {
		tb := float64(s.Summary.TotalBet)
		s.Summary.LineRTP = float64(s.Summary.LineWin) / tb
		s.Summary.ScatterRTP = float64(s.Summary.ScatterWin) / tb
		for i := range s.Symbols {
			s.Symbols[i].RTP = float64(s.Symbols[i].Win) / tb
		}
	}
	if s.Summary.Rounds > 0 {
		rf := float64(s.Summary.Rounds)
		s.Summary.TriggerRate = float64(s.Summary.Trigger) / rf
		s.Summary.HitRate = 1.0 - float64(s.Summary.NoWinRounds)/rf
		s.Dist.TotalWinDist = toDist(s.Dist.TotalWinCollect, rf)
		s.Dist.LineWinDist = toDist(s.Dist.LineWinCollect, rf)
		s.Dist.ScatterWinDist = toDist(s.Dist.ScatterWinCollect, rf)
	}
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 回傳整體 RTP（總贏分 / 總押注）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return float64(s.Summary.TotalWin) / float64(s.Summary.TotalBet)
}

// Std 回傳單局贏倍的標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)
	winMultPow := s.Mult.TotalWinMult * s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - winMultPow/rounds) / (rounds - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 回傳單局贏倍的變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳(95% Rtp)信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{
		Lo: max(rtp-1.96*se, 0.0),
		Hi: rtp + 1.96*se,
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出到標準輸出，ut 為模擬耗時。
func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.Rounds))
	fmt.Println(s.Table())
}

// Table 回傳基本統計與圖標貢獻的文字表格。
func (s *StatReport) Table() string {
	s.Done()
	sk, sm := s.fmtBasic()
	out := fmtTable(s.Summary.GameName, sk, sm)
	if len(s.Symbols) > 0 {
		yk, ym := s.fmtSymbols()
		out += fmtTable("Line Win By Symbol", yk, ym)
	}
	return out
}

// ============================================================
// ** 內部方法 **
// ============================================================

func toDist(collect []int, rounds float64) []float64 {
	out := make([]float64, len(collect))
	for i, c := range collect {
		out[i] = float64(c) / rounds
	}
	return out
}

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    sm.GameName,
		"Game ID":      fmt.Sprintf("%d", sm.GameId),
		"Bet":          p.Sprintf("%d", sm.Bet),
		"Total Rounds": p.Sprintf("%d", sm.Rounds),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Line RTP":     p.Sprintf("%.2f %%", 100.0*sm.LineRTP),
		"Scatter RTP":  p.Sprintf("%.2f %%", 100.0*sm.ScatterRTP),
		"Total Bet":    p.Sprintf("%d", sm.TotalBet),
		"Total Win":    p.Sprintf("%d", sm.TotalWin),
		"Hit Rate":     p.Sprintf("%.2f %%", 100.0*sm.HitRate),
		"Bonus":        p.Sprintf("%d (1 in %s)", sm.Trigger, oneIn(sm.TriggerRate)),
		"Big / Mega":   p.Sprintf("%d / %d", sm.BigWins, sm.MegaWins),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Game ID", "Bet", "Total Rounds", "Total RTP", "RTP 95% CI", "Line RTP", "Scatter RTP", "Total Bet", "Total Win", "Hit Rate", "Bonus", "Big / Mega", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtSymbols() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Symbols))
	msg := make(map[string]string, len(s.Symbols))
	for _, sr := range s.Symbols {
		keys = append(keys, sr.Symbol)
		msg[sr.Symbol] = p.Sprintf("hits %d  rtp %.2f %%", sr.Hits, 100.0*sr.RTP)
	}
	return keys, msg
}

func oneIn(rate float64) string {
	if rate <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", 1.0/rate)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title) / 2
	maxValLen := 0
	for _, k := range keys {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(msg[k]); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) + " | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
