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

package slotengine

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/recorder"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/spec"
	"github.com/zintix-labs/slotengine/stats"
)

const capPrepare int = 64

// Simulator 用於大量模擬，可建立多台機台並平行紀錄統計。
//
// 同一個 Simulator 的方法會序列化執行；需要同時跑多組模擬請建立多個 Simulator。
type Simulator struct {
	GameName  string
	GameId    spec.GID
	parts     *parts
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker
	mu        sync.Mutex
	mBuf      []*Machine // 併發執行機台實例，跨次模擬重用
}

func newSimulator(p *parts, cf core.PRNGFactory, seed int64) *Simulator {
	s := &Simulator{
		GameName:  p.setting.GameName,
		GameId:    p.setting.GameID,
		parts:     p,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Machine, 1, capPrepare),
	}
	s.mBuf[0] = p.newMachine(cf.New(seed), seed)
	return s
}

// Seed 回傳模擬器的初始 seed，相同 seed 與參數可重現同一份報表。
func (s *Simulator) Seed() int64 { return s.initSeed }

func (s *Simulator) Setting() *spec.SlotSetting { return s.parts.setting }

// Sim 單線模擬：以一台機台連續跑 rounds 局，回傳統計結果與用時。
func (s *Simulator) Sim(bet int, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.SimMP(bet, rounds, 1, showpb)
}

// SimMP 平行執行 workers 台機台，每台跑 rounds 局，合併統計結果後回傳。
func (s *Simulator) SimMP(bet int, rounds int, workers int, showpb bool) (*stats.StatReport, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validBet(bet); err != nil {
		return nil, 0, err
	}
	if rounds < 1 || workers < 1 {
		return nil, 0, errs.Warnf("rounds and workers must > 0, got rounds=%d workers=%d", rounds, workers)
	}
	s.prepareMachines(workers)

	recs := make([]*recorder.SpinRecorder, workers)
	for i := range recs {
		r, err := s.newRecorder(bet, 0)
		if err != nil {
			return nil, 0, err
		}
		recs[i] = r
	}

	var fail firstErr
	wg := new(sync.WaitGroup)
	bar := newBar(rounds*workers, showpb)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(m *Machine, rec *recorder.SpinRecorder) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				_, out, err := m.spinInternal(bet)
				if err != nil {
					fail.set(err)
					return
				}
				rec.Record(&out)
				bar.Increment()
			}
		}(s.mBuf[i], recs[i])
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err := fail.get(); err != nil {
		return nil, used, err
	}

	merged, err := recorder.MergeSpinRecorder(recs)
	if err != nil {
		return nil, used, err
	}
	return merged.Done(), used, nil
}

// SimPlayers 模擬 players 位玩家各自帶入 bet × initBets 的本金，最多玩 rounds 局，
// 破產或贏到三倍本金即離場。回傳機台報表與玩家體驗評估。
func (s *Simulator) SimPlayers(workers int, players int, initBets int, bet int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.validBet(bet); err != nil {
		return nil, nil, 0, err
	}
	if players < 1 || initBets < 1 || rounds < 1 || workers < 1 {
		return nil, nil, 0, errs.Warnf("invalid param: workers=%d players=%d initBets=%d rounds=%d", workers, players, initBets, rounds)
	}
	s.prepareMachines(workers)

	recs := make([]*recorder.SpinRecorder, players)
	for i := range recs {
		r, err := s.newRecorder(bet, initBets)
		if err != nil {
			return nil, nil, 0, err
		}
		recs[i] = r
	}

	// 緩衝 channel 讓玩家依序分派給空出來的機台
	jobs := make(chan *recorder.SpinRecorder, 2048)
	var fail firstErr
	wg := new(sync.WaitGroup)
	bar := newBar(players, showpb)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go playerWorker(wg, s.mBuf[w], jobs, bet, rounds, bar, &fail)
	}
	for _, j := range recs {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err := fail.get(); err != nil {
		return nil, nil, used, err
	}

	merged, err := recorder.MergeSpinRecorder(recs)
	if err != nil {
		return nil, nil, used, err
	}
	reports := make([]*stats.StatReport, players)
	for i, r := range recs {
		reports[i] = r.Done()
	}
	return merged.Done(), stats.EstimatorPlayerExp(reports), used, nil
}

func playerWorker(wg *sync.WaitGroup, m *Machine, jobs <-chan *recorder.SpinRecorder, bet int, rounds int, bar *pb.ProgressBar, fail *firstErr) {
	defer wg.Done()
	for j := range jobs {
		for range rounds {
			if !j.CanAfford() {
				break
			}
			_, out, err := m.spinInternal(bet)
			if err != nil {
				fail.set(err)
				break
			}
			if j.RecordWithPlayer(&out) {
				break
			}
		}
		bar.Increment()
	}
}

func (s *Simulator) prepareMachines(n int) {
	for len(s.mBuf) < n {
		seed := s.seedmaker.next()
		s.mBuf = append(s.mBuf, s.parts.newMachine(s.cf.New(seed), seed))
	}
}

func (s *Simulator) newRecorder(bet, initBets int) (*recorder.SpinRecorder, error) {
	st := s.parts.setting
	return recorder.NewSpinRecorder(st.GameName, st.GameID, bet, initBets, st.WinTiers)
}

func (s *Simulator) validBet(bet int) error {
	br := s.parts.setting.BetRange
	if !br.Contains(bet) {
		return errs.InvalidBet(bet, br.Min, br.Max)
	}
	return nil
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.New(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar.Start()
}

// firstErr 保留 worker 回報的第一個錯誤。
type firstErr struct {
	once sync.Once
	err  error
}

func (f *firstErr) set(err error) {
	f.once.Do(func() { f.err = err })
}

// get 需在 wg.Wait 之後呼叫。
func (f *firstErr) get() error {
	return f.err
}

const mask63 = uint64(1<<63) - 1

// seedMaker 由一個初始 seed 推導出一串互不重複的機台 seed。
type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以 CAS 推進全週期 LCG，並發呼叫也各自取得唯一的 state，再經 mix63 打散。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
