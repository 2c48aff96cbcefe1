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
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

// SlotRuntime 服務用的執行期：每款遊戲一個 MachinePool。
type SlotRuntime struct {
	engine *Engine

	pools map[spec.GID]*MachinePool
	ids   []spec.GID

	done      chan struct{}
	closeOnce sync.Once
	reason    atomic.Value // string

	poolSize int
}

func (rt *SlotRuntime) pool(ctx context.Context, gid spec.GID) (*MachinePool, error) {
	select {
	case <-ctx.Done():
		return nil, &errs.E{Message: "spin canceled/timeout", Cause: ctx.Err(), ErrLv: errs.Warn}
	case <-rt.done:
		return nil, errs.NewFatal("slot runtime closed: " + rt.ClosedReason())
	default:
	}
	mp, ok := rt.pools[gid]
	if !ok {
		return nil, errs.Warnf("game id %d not found", gid)
	}
	return mp, nil
}

// Spin 以 gid 對應的機台池執行一局。
func (rt *SlotRuntime) Spin(ctx context.Context, gid spec.GID, bet int) (slot.SpinResult, error) {
	mp, err := rt.pool(ctx, gid)
	if err != nil {
		return slot.SpinResult{}, err
	}
	return mp.Spin(ctx, bet)
}

// Replay 從 RNG 狀態重跑一局。
func (rt *SlotRuntime) Replay(ctx context.Context, gid spec.GID, state []byte, bet int) (slot.SpinResult, error) {
	mp, err := rt.pool(ctx, gid)
	if err != nil {
		return slot.SpinResult{}, err
	}
	return mp.Replay(ctx, state, bet)
}

// Evaluate 對呼叫端的盤面算分。純計算，不借機台。
func (rt *SlotRuntime) Evaluate(ctx context.Context, gid spec.GID, grid slot.Grid, bet int) (slot.SpinOutcome, error) {
	if _, err := rt.pool(ctx, gid); err != nil {
		return slot.SpinOutcome{}, err
	}
	p := rt.engine.parts[gid]
	if br := p.setting.BetRange; !br.Contains(bet) {
		return slot.SpinOutcome{}, errs.InvalidBet(bet, br.Min, br.Max)
	}
	return p.calc.Evaluate(grid, bet)
}

func (rt *SlotRuntime) Engine() *Engine { return rt.engine }

func (rt *SlotRuntime) IDs() []spec.GID { return append([]spec.GID(nil), rt.ids...) }

func (rt *SlotRuntime) Metrics() []MachinePoolMetrics {
	out := make([]MachinePoolMetrics, 0, len(rt.ids))
	for _, id := range rt.ids {
		if mp, ok := rt.pools[id]; ok {
			out = append(out, mp.Metrics())
		}
	}
	return out
}

// Close 關閉執行期與所有機台池，可重複呼叫。
func (rt *SlotRuntime) Close() {
	rt.closeWithReason("closed")
}

func (rt *SlotRuntime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		close(rt.done)
		for _, mp := range rt.pools {
			mp.closeWithReason(reason)
		}
	})
}

func (rt *SlotRuntime) Closed() bool {
	select {
	case <-rt.done:
		return true
	default:
		return false
	}
}

func (rt *SlotRuntime) ClosedReason() string {
	if s, ok := rt.reason.Load().(string); ok {
		return s
	}
	return ""
}
