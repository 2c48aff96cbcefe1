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
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

// MachinePool 管理單一遊戲的所有機台。
//
//  1. pool：健康的機台，Spin 時借出、結束後歸還。
//  2. broken：panic 或回傳 Fatal 錯誤的機台，狀態不可信，送出後立即補一台新機維持容量。
//
// 每台機台各自擁有一條 RNG 串流，並發 spin 之間不共享亂數狀態。
type MachinePool struct {
	gameName      string
	gameId        spec.GID
	parts         *parts
	cf            core.PRNGFactory
	seedMaker     *seedMaker
	pool          chan *Machine
	broken        chan *Machine
	done          chan struct{}
	closeOnce     sync.Once
	poolsize      int
	rebuild       atomic.Int32
	inflight      atomic.Int32
	spins         atomic.Int64
	panics        atomic.Int32
	fatals        atomic.Int32
	closeReason   atomic.Value // string
	closeInflight atomic.Int32
}

func newMachinePool(n int, p *parts, cf core.PRNGFactory, seed int64) (*MachinePool, error) {
	n = max(1, n)
	mp := &MachinePool{
		gameName:  p.setting.GameName,
		gameId:    p.setting.GameID,
		parts:     p,
		cf:        cf,
		seedMaker: newSeedMaker(seed),
		pool:      make(chan *Machine, n),
		broken:    make(chan *Machine, 100),
		done:      make(chan struct{}),
		poolsize:  n,
	}
	mp.closeReason.Store("")
	mp.closeInflight.Store(-1)
	for i := 0; i < n; i++ {
		mp.pool <- mp.build()
	}
	return mp, nil
}

func (mp *MachinePool) build() *Machine {
	seed := mp.seedMaker.next()
	return mp.parts.newMachine(mp.cf.New(seed), seed)
}

func (mp *MachinePool) Close() {
	mp.closeWithReason("closed")
}

func (mp *MachinePool) Closed() bool {
	select {
	case <-mp.done:
		return true
	default:
		return false
	}
}

func (mp *MachinePool) closeWithReason(reason string) {
	mp.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		mp.closeReason.Store(reason)
		mp.closeInflight.Store(mp.inflight.Load())
		close(mp.done)
	})
}

// Spin 借一台機台執行 Spin。
func (mp *MachinePool) Spin(ctx context.Context, bet int) (slot.SpinResult, error) {
	return mp.with(ctx, func(m *Machine) (slot.SpinResult, error) {
		return m.Spin(bet)
	})
}

// Replay 借一台機台從 state 重跑一局，機台本身的 RNG 狀態不受影響。
func (mp *MachinePool) Replay(ctx context.Context, state []byte, bet int) (slot.SpinResult, error) {
	return mp.with(ctx, func(m *Machine) (slot.SpinResult, error) {
		return m.Replay(state, bet)
	})
}

func (mp *MachinePool) with(ctx context.Context, fn func(*Machine) (slot.SpinResult, error)) (res slot.SpinResult, err error) {
	var m *Machine
	select {
	case <-mp.done:
		return res, errs.NewFatal("machine pool closed: " + mp.ClosedReason())
	case <-ctx.Done():
		return res, &errs.E{Message: "spin canceled/timeout", Cause: ctx.Err(), ErrLv: errs.Warn}
	case m = <-mp.pool:
		mp.inflight.Add(1)
	}

	defer func() {
		mp.inflight.Add(-1)
		isPanic := false
		if r := recover(); r != nil {
			isPanic = true
			mp.panics.Add(1)
			err = errs.Fatalf("machine %s panic: %v", mp.gameName, r)
		}
		if mp.Closed() {
			return
		}
		if !isPanic && errs.Level(err) != errs.Fatal {
			// 一般請求錯誤（例如下注越界）不影響機台健康
			select {
			case <-mp.done:
			case mp.pool <- m:
			}
			return
		}
		if !isPanic {
			mp.fatals.Add(1)
		}
		select {
		case mp.broken <- m:
		default:
			mp.closeWithReason("overwhelmed_by_failures")
			return
		}
		mp.rebuild.Add(1)
		select {
		case <-mp.done:
		case mp.pool <- mp.build():
		}
	}()

	res, err = fn(m)
	if err == nil {
		mp.spins.Add(1)
	}
	return res, err
}

func (mp *MachinePool) PoolSize() int { return mp.poolsize }

func (mp *MachinePool) Available() int { return len(mp.pool) }

func (mp *MachinePool) ClosedReason() string {
	if s, ok := mp.closeReason.Load().(string); ok {
		return s
	}
	return ""
}

// MachinePoolMetrics 拉取式觀測快照。Available 與 BrokenBacklog 取自 len(chan)，高併發下為近似值。
type MachinePoolMetrics struct {
	GameName      string   `json:"game_name"`
	GameID        spec.GID `json:"game_id"`
	PoolSize      int      `json:"pool_size"`
	Available     int      `json:"available"`
	Inflight      int      `json:"inflight"`
	BrokenBacklog int      `json:"broken_backlog"`
	Spins         int64    `json:"spins"`
	Rebuild       int      `json:"rebuild"`
	Panics        int      `json:"panics"`
	Fatals        int      `json:"fatals"`
	Closed        bool     `json:"closed"`
	CloseReason   string   `json:"close_reason"`
	CloseInflight int      `json:"close_inflight"` // -1 表示尚未關閉
}

func (mp *MachinePool) Metrics() MachinePoolMetrics {
	return MachinePoolMetrics{
		GameName:      mp.gameName,
		GameID:        mp.gameId,
		PoolSize:      mp.poolsize,
		Available:     len(mp.pool),
		Inflight:      int(mp.inflight.Load()),
		BrokenBacklog: len(mp.broken),
		Spins:         mp.spins.Load(),
		Rebuild:       int(mp.rebuild.Load()),
		Panics:        int(mp.panics.Load()),
		Fatals:        int(mp.fatals.Load()),
		Closed:        mp.Closed(),
		CloseReason:   mp.ClosedReason(),
		CloseInflight: int(mp.closeInflight.Load()),
	}
}

func (mp *MachinePool) String() string {
	return fmt.Sprintf("pool(%s size=%d avail=%d)", mp.gameName, mp.poolsize, len(mp.pool))
}
