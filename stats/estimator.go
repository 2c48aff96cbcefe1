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
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

const confidence = 0.95

// ============================================================
// ** 結構宣告 **
// ============================================================

// EstimatorPlayers 用戶體驗評估
type EstimatorPlayers struct {
	Players     int         `json:"Players"`
	RtpStat     RtpStat     `json:"RtpStat"`
	EventStat   EventStat   `json:"EventStat"`
	SessionStat SessionStat `json:"SessionStat"`
}

// Rtp敘事
type RtpStat struct {
	ExpMedian PointStat `json:"ExpMedian"` // 體驗的中位數
	ExpPerc   ExpPerc   `json:"ExpPerc"`   // 玩家分位數對應的 RTP
	RtpPerc   RtpPerc   `json:"RtpPerc"`   // RTP 門檻對應的玩家比例
}

// 最差10％玩家的RTP、最差33%玩家的RTP ...
type ExpPerc struct {
	ExpP10 PointStat `json:"ExpP10"`
	ExpP33 PointStat `json:"ExpP33"`
	ExpP67 PointStat `json:"ExpP67"`
	ExpP90 PointStat `json:"ExpP90"`
}

// 有多少玩家的 RTP ≤ 30% / 50% / 70% / 100%
type RtpPerc struct {
	Rtp30  PointStat `json:"Rtp30"`
	Rtp50  PointStat `json:"Rtp50"`
	Rtp70  PointStat `json:"Rtp70"`
	Rtp100 PointStat `json:"Rtp100"`
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// 事件敘事
type EventStat struct {
	Bonus  EventCount  `json:"Bonus"`
	Bucket BucketEvent `json:"Bucket"`
}

// 每位玩家遇到事件 0 / 1 / 2 / 3+ 次的比例
type EventCount struct {
	Zero PointStat `json:"Zero"`
	One  PointStat `json:"One"`
	Two  PointStat `json:"Two"`
	More PointStat `json:"More"`
}

// 對應分桶的統計
type BucketEvent struct {
	Labels []string     `json:"Labels"`
	Counts []EventCount `json:"Counts"`
}

// 結局敘事
type SessionStat struct {
	Bust    PointStat `json:"Bust"`    // 破產
	Cashout PointStat `json:"Cashout"` // 贏滿離場
	Alive   PointStat `json:"Alive"`   // 打完局數
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 用戶體驗評估，每份 StatReport 代表一位玩家。
//
// 1. RTP 敘事 : 玩家 RTP 的分位數與門檻比例
//
// 2. Event 敘事 : 觸發 bonus、落在各贏倍區間的次數分布
//
// 3. Session 敘事 : 破產、贏滿離場、打完局數的比例
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	for i, s := range sts {
		rtp[i] = s.Rtp()
	}
	sort.Float64s(rtp)

	out.RtpStat = RtpStat{
		ExpMedian: quantileStat(rtp, 0.5),
		ExpPerc: ExpPerc{
			ExpP10: quantileStat(rtp, 0.10),
			ExpP33: quantileStat(rtp, 1.0/3.0),
			ExpP67: quantileStat(rtp, 2.0/3.0),
			ExpP90: quantileStat(rtp, 0.90),
		},
		RtpPerc: RtpPerc{
			Rtp30:  atMostStat(rtp, 0.30),
			Rtp50:  atMostStat(rtp, 0.50),
			Rtp70:  atMostStat(rtp, 0.70),
			Rtp100: atMostStat(rtp, 1.00),
		},
	}

	out.EventStat.Bonus = eventCount(sts, func(s *StatReport) int { return s.Summary.Trigger })

	labels := Buckets.Labels()
	out.EventStat.Bucket = BucketEvent{Labels: labels, Counts: make([]EventCount, len(labels))}
	for bi := range labels {
		out.EventStat.Bucket.Counts[bi] = eventCount(sts, func(s *StatReport) int {
			if bi < len(s.Dist.TotalWinCollect) {
				return s.Dist.TotalWinCollect[bi]
			}
			return 0
		})
	}

	var bustK, cashK, aliveK int
	for _, s := range sts {
		if s.Player == nil {
			continue
		}
		switch {
		case s.Player.Bust:
			bustK++
		case s.Player.Cashout:
			cashK++
		default:
			aliveK++
		}
	}
	out.SessionStat = SessionStat{
		Bust:    proportionStat(bustK, n),
		Cashout: proportionStat(cashK, n),
		Alive:   proportionStat(aliveK, n),
	}
	return out
}

// Table 回傳文字版報表。
func (est *EstimatorPlayers) Table() string {
	var sb strings.Builder
	rs := est.RtpStat
	sb.WriteString(fmtTable(fmt.Sprintf("RTP (%d players)", est.Players),
		[]string{"Median RTP", "P10 RTP", "P33 RTP", "P67 RTP", "P90 RTP", "≤30% RTP", "≤50% RTP", "≤70% RTP", "≤100% RTP"},
		map[string]string{
			"Median RTP": fmtPoint(rs.ExpMedian),
			"P10 RTP":    fmtPoint(rs.ExpPerc.ExpP10),
			"P33 RTP":    fmtPoint(rs.ExpPerc.ExpP33),
			"P67 RTP":    fmtPoint(rs.ExpPerc.ExpP67),
			"P90 RTP":    fmtPoint(rs.ExpPerc.ExpP90),
			"≤30% RTP":   fmtPoint(rs.RtpPerc.Rtp30),
			"≤50% RTP":   fmtPoint(rs.RtpPerc.Rtp50),
			"≤70% RTP":   fmtPoint(rs.RtpPerc.Rtp70),
			"≤100% RTP":  fmtPoint(rs.RtpPerc.Rtp100),
		}))

	b := est.EventStat.Bonus
	sb.WriteString(fmtTable("Bonus Triggers Per Player",
		[]string{"0 times", "1 time", "2 times", "3+ times"},
		map[string]string{
			"0 times":  fmtPoint(b.Zero),
			"1 time":   fmtPoint(b.One),
			"2 times":  fmtPoint(b.Two),
			"3+ times": fmtPoint(b.More),
		}))

	bm := make(map[string]string, len(est.EventStat.Bucket.Labels))
	for i, label := range est.EventStat.Bucket.Labels {
		ec := est.EventStat.Bucket.Counts[i]
		bm[label] = fmt.Sprintf("0x %s | 1x %s | 2x %s | 3+x %s",
			fmtPct01(ec.Zero.Hat), fmtPct01(ec.One.Hat), fmtPct01(ec.Two.Hat), fmtPct01(ec.More.Hat))
	}
	sb.WriteString(fmtTable("Win Buckets Per Player", est.EventStat.Bucket.Labels, bm))

	ss := est.SessionStat
	sb.WriteString(fmtTable("Session Outcome",
		[]string{"Bust", "Cashout", "Alive"},
		map[string]string{
			"Bust":    fmtPoint(ss.Bust),
			"Cashout": fmtPoint(ss.Cashout),
			"Alive":   fmtPoint(ss.Alive),
		}))
	return sb.String()
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

func eventCount(sts []*StatReport, count func(*StatReport) int) EventCount {
	var c0, c1, c2, c3p int
	for _, s := range sts {
		switch c := count(s); {
		case c == 0:
			c0++
		case c == 1:
			c1++
		case c == 2:
			c2++
		default:
			c3p++
		}
	}
	n := len(sts)
	return EventCount{
		Zero: proportionStat(c0, n),
		One:  proportionStat(c1, n),
		Two:  proportionStat(c2, n),
		More: proportionStat(c3p, n),
	}
}

func proportionStat(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, confidence)
	return PointStat{Hat: hat, CI: ci}
}

// atMostStat 估計 P(X ≤ x0)；sorted 需已排序。
func atMostStat(sorted []float64, x0 float64) PointStat {
	k := sort.Search(len(sorted), func(i int) bool { return sorted[i] > x0 })
	return proportionStat(k, len(sorted))
}

func quantileStat(sorted []float64, q float64) PointStat {
	lo, hi := quantileCI(sorted, q, confidence)
	return PointStat{Hat: quantilePoint(sorted, q), CI: CI{Lo: lo, Hi: hi}}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// quantileCI 把 order statistic 的秩視為二項，以 Beta 反推 p 的範圍再換回樣本值。sorted 需已排序。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}
	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)

	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	li := clampIdx(int(bLo.Quantile(alpha/2)*float64(n)), n)
	ui := clampIdx(int(bHi.Quantile(1-alpha/2)*float64(n))-1, n)
	return sorted[li], sorted[ui]
}

// quantilePoint 最近秩法；sorted 需已排序。
func quantilePoint(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	return sorted[clampIdx(int(q*float64(n)), n)]
}

func clampIdx(i, n int) int {
	return min(max(i, 0), n-1)
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtPoint(p PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(p.Hat), fmtPct01(p.CI.Lo), fmtPct01(p.CI.Hi))
}
