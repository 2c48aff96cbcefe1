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
	"errors"
	"testing"

	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/gen"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

const (
	classic spec.GID = 1
	mini    spec.GID = 2
)

func newDemoEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(core.Default(), demo_configs.FS)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEngineLoadsDemo(t *testing.T) {
	e := newDemoEngine(t)
	if ids := e.IDs(); len(ids) != 2 || ids[0] != classic || ids[1] != mini {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := e.NewMachine(99); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown game should be warn, got %v", err)
	}
	if _, err := New(nil, demo_configs.FS); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("nil factory should be config error, got %v", err)
	}
}

func TestMachineSeedDeterminism(t *testing.T) {
	e := newDemoEngine(t)
	a, _ := e.NewMachineWithSeed(classic, 42)
	b, _ := e.NewMachineWithSeed(classic, 42)
	for i := 0; i < 50; i++ {
		ra, err := a.Spin(10)
		if err != nil {
			t.Fatal(err)
		}
		rb, _ := b.Spin(10)
		if ra.Grid.String() != rb.Grid.String() || ra.Outcome.Total != rb.Outcome.Total {
			t.Fatalf("spin %d diverged", i)
		}
	}
	if a.Seed() != 42 {
		t.Fatalf("seed got %d", a.Seed())
	}
}

func TestScriptedGridIsExact(t *testing.T) {
	e := newDemoEngine(t)
	s, _ := e.Setting(classic)
	want := slot.Grid{
		{"seven", "cherry", "lemon"},
		{"seven", "wild", "lemon"},
		{"wild", "scatter", "bell"},
		{"plum", "scatter", "bar"},
		{"scatter", "orange", "cherry"},
	}
	layout, err := NewMachine(s, core.NewScripted())
	if err != nil {
		t.Fatal(err)
	}
	vals, ok := gen.ScriptFor(layout.src, want)
	if !ok {
		t.Fatalf("script for grid failed")
	}
	rng := core.NewScripted(vals...)
	m, _ := NewMachine(s, rng)
	res, err := m.Spin(2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Grid.String() != want.String() {
		t.Fatalf("grid got\n%s\nwant\n%s", res.Grid, want)
	}
	if rng.Pos() != 15 {
		t.Fatalf("one draw per cell, got %d", rng.Pos())
	}
	out, err := m.Evaluate(want, 2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != res.Outcome.Total || !res.Outcome.TriggersBonus() {
		t.Fatalf("outcome mismatch: spin=%+v eval=%+v", res.Outcome, out)
	}
	// 3 個 scatter：1000 × 2 × 2
	if res.Outcome.ScatterTotal() != 4000 {
		t.Fatalf("scatter got %d", res.Outcome.ScatterTotal())
	}
}

func TestInvalidBetConsumesNoRNG(t *testing.T) {
	e := newDemoEngine(t)
	s, _ := e.Setting(classic)
	rng := core.NewScripted(1, 2, 3)
	m, _ := NewMachine(s, rng)
	for _, bet := range []int{0, -5, 101} {
		if _, err := m.Spin(bet); !errors.Is(err, errs.ErrInvalidBet) {
			t.Fatalf("bet %d: got %v", bet, err)
		}
	}
	if rng.Pos() != 0 {
		t.Fatalf("invalid bet consumed %d values", rng.Pos())
	}
	if _, err := NewMachine(s, nil); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("nil rng should be config error, got %v", err)
	}
}

func TestReplayDoesNotDisturbStream(t *testing.T) {
	e := newDemoEngine(t)
	m, _ := e.NewMachineWithSeed(mini, 7)
	r1, _ := m.Spin(5)
	r2, _ := m.Spin(5)

	again, err := m.Replay(r1.StartState, 5)
	if err != nil {
		t.Fatal(err)
	}
	if again.Grid.String() != r1.Grid.String() || again.Outcome.Total != r1.Outcome.Total {
		t.Fatalf("replay differs")
	}
	r3, _ := m.Spin(5)
	if string(r3.StartState) != string(r2.AfterState) {
		t.Fatalf("replay moved the live stream")
	}
	if _, err := m.Replay([]byte{1}, 5); errs.Level(err) != errs.Warn {
		t.Fatalf("bad state should be warn, got %v", err)
	}
}

func TestSnapshotRestoreRNG(t *testing.T) {
	e := newDemoEngine(t)
	m, _ := e.NewMachineWithSeed(classic, 11)
	m.Spin(10)
	snap, err := m.SnapshotRNG()
	if err != nil {
		t.Fatal(err)
	}
	first, _ := m.Spin(10)
	m.Spin(10)
	if err := m.RestoreRNG(snap); err != nil {
		t.Fatal(err)
	}
	again, _ := m.Spin(10)
	if again.Grid.String() != first.Grid.String() || again.Outcome.Total != first.Outcome.Total {
		t.Fatalf("restored stream diverged:\n%s\nvs\n%s", again.Grid, first.Grid)
	}
	if string(again.StartState) != string(snap) {
		t.Fatalf("start state should equal the snapshot")
	}
	if err := m.RestoreRNG([]byte{1, 2}); err == nil {
		t.Fatalf("bad state should fail")
	}
}

func TestEvaluateEnforcesBetRange(t *testing.T) {
	e := newDemoEngine(t)
	m, _ := e.NewMachineWithSeed(classic, 1)
	grid := slot.Grid{
		{"cherry", "lemon", "plum"},
		{"cherry", "lemon", "plum"},
		{"cherry", "lemon", "plum"},
		{"bell", "bar", "orange"},
		{"bell", "bar", "orange"},
	}
	rt, err := e.BuildRuntime(1)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	for _, bet := range []int{0, 101} {
		if _, err := m.Evaluate(grid, bet); !errors.Is(err, errs.ErrInvalidBet) {
			t.Fatalf("machine bet %d: got %v", bet, err)
		}
		if _, err := rt.Evaluate(context.Background(), classic, grid, bet); !errors.Is(err, errs.ErrInvalidBet) {
			t.Fatalf("runtime bet %d: got %v", bet, err)
		}
	}
	if _, err := m.Evaluate(grid, 100); err != nil {
		t.Fatalf("max bet should evaluate: %v", err)
	}
}

func TestRuntimeSpinCancelClose(t *testing.T) {
	e := newDemoEngine(t)
	rt, err := e.BuildRuntime(2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	res, err := rt.Spin(ctx, classic, 10)
	if err != nil || res.GameID != classic {
		t.Fatalf("spin got %+v, %v", res, err)
	}
	again, err := rt.Replay(ctx, classic, res.StartState, 10)
	if err != nil || again.Grid.String() != res.Grid.String() {
		t.Fatalf("runtime replay differs: %v", err)
	}
	if _, err := rt.Spin(ctx, 99, 10); errs.Level(err) != errs.Warn {
		t.Fatalf("unknown gid should be warn, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := rt.Spin(canceled, classic, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled ctx got %v", err)
	}

	m := rt.Metrics()
	if len(m) != 2 || m[0].Spins != 2 || m[0].PoolSize != 2 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	rt.Close()
	if !rt.Closed() {
		t.Fatalf("runtime should be closed")
	}
	if _, err := rt.Spin(ctx, classic, 10); errs.Level(err) != errs.Fatal {
		t.Fatalf("closed runtime should be fatal, got %v", err)
	}
}

func TestRuntimeConcurrentSpins(t *testing.T) {
	e := newDemoEngine(t)
	rt, _ := e.BuildRuntime(3)
	defer rt.Close()

	errc := make(chan error, 64)
	for i := 0; i < 64; i++ {
		go func() {
			_, err := rt.Spin(context.Background(), mini, 1)
			errc <- err
		}()
	}
	for i := 0; i < 64; i++ {
		if err := <-errc; err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range rt.Metrics() {
		if m.GameID == mini && (m.Spins != 64 || m.Available != 3) {
			t.Fatalf("unexpected pool state %+v", m)
		}
	}
}

func fixedSpin(total int64, calls *int) SpinFunc {
	return func(bet int) (slot.SpinResult, error) {
		*calls++
		return slot.SpinResult{Bet: bet, Outcome: slot.SpinOutcome{Total: total}}, nil
	}
}

func TestSessionWallet(t *testing.T) {
	e := newDemoEngine(t)
	s, _ := e.Setting(classic)
	ss := NewSession("p1", s)

	calls := 0
	res, err := ss.Spin(fixedSpin(25, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.State.Balance.IntPart(); got != 1000-10+25 {
		t.Fatalf("balance got %d", got)
	}

	boom := errors.New("boom")
	if _, err := ss.Spin(func(int) (slot.SpinResult, error) { return slot.SpinResult{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if st := ss.State(); st.Balance.IntPart() != 1015 || st.Spins != 1 {
		t.Fatalf("failed spin must not touch the wallet: %+v", st)
	}

	poor := *s
	poor.InitialBalance = 5
	ps := NewSession("p2", &poor)
	if _, err := ps.Spin(fixedSpin(0, &calls)); !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("got %v", err)
	}
	if calls != 1 {
		t.Fatalf("refused spin must not draw, calls=%d", calls)
	}
}

func TestSessionBetClamp(t *testing.T) {
	e := newDemoEngine(t)
	s, _ := e.Setting(classic)
	ss := NewSession("p", s)

	if err := ss.SetBet(100); err != nil {
		t.Fatal(err)
	}
	if got := ss.IncreaseBet(); got != 100 {
		t.Fatalf("increase past max got %d", got)
	}
	_ = ss.SetBet(1)
	if got := ss.DecreaseBet(); got != 1 {
		t.Fatalf("decrease past min got %d", got)
	}
	if err := ss.SetBet(101); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("got %v", err)
	}
	if ss.State().Bet != 1 {
		t.Fatalf("rejected bet changed state")
	}
}

func TestSessionStore(t *testing.T) {
	e := newDemoEngine(t)
	st := NewSessionStore(e, 2)
	a, err := st.Create(classic)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Create(mini); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Create(mini); errs.Level(err) != errs.Warn {
		t.Fatalf("limit should be warn, got %v", err)
	}
	if got, err := st.Get(a.ID); err != nil || got != a {
		t.Fatalf("get got %v, %v", got, err)
	}
	st.Delete(a.ID)
	if _, err := st.Get(a.ID); err == nil || st.Len() != 1 {
		t.Fatalf("delete failed")
	}
	if _, err := st.Create(99); err == nil {
		t.Fatalf("unknown game should fail")
	}
}

func TestSimulatorReproducible(t *testing.T) {
	e := newDemoEngine(t)
	a, _ := e.NewSimulatorWithSeed(mini, 9)
	b, _ := e.NewSimulatorWithSeed(mini, 9)
	ra, _, err := a.SimMP(1, 3000, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	rb, _, _ := b.SimMP(1, 3000, 3, false)
	if ra.Summary.TotalWin != rb.Summary.TotalWin || ra.Summary.Rounds != 9000 {
		t.Fatalf("same seed diverged: %d vs %d (%d rounds)", ra.Summary.TotalWin, rb.Summary.TotalWin, ra.Summary.Rounds)
	}
	if ra.Summary.TotalWin != ra.Summary.LineWin+ra.Summary.ScatterWin {
		t.Fatalf("total must split into line and scatter")
	}

	single, _, err := a.Sim(1, 500, false)
	if err != nil || single.Summary.Rounds != 500 {
		t.Fatalf("sim got %v, %v", single, err)
	}
	if _, _, err := a.Sim(0, 10, false); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("got %v", err)
	}
}

func TestSimPlayers(t *testing.T) {
	e := newDemoEngine(t)
	sim, _ := e.NewSimulatorWithSeed(classic, 3)
	st, est, _, err := sim.SimPlayers(2, 50, 20, 1, 300, false)
	if err != nil {
		t.Fatal(err)
	}
	if est.Players != 50 || st.Summary.Rounds < 1 || st.Summary.Rounds > 50*300 {
		t.Fatalf("unexpected result players=%d rounds=%d", est.Players, st.Summary.Rounds)
	}
	if _, _, _, err := sim.SimPlayers(2, 0, 20, 1, 300, false); errs.Level(err) != errs.Warn {
		t.Fatalf("zero players should be warn, got %v", err)
	}
}

func TestSimulatorBySetting(t *testing.T) {
	e := newDemoEngine(t)
	s, err := spec.GetSlotSettingByYAML([]byte(`
game_name: mono
game_id: 50
reel_count: 3
row_count: 1
symbols:
  - { id: a, value: 4, weight: 1 }
paylines: [[0, 0, 0]]
bet_range: { min: 1, max: 10 }
`))
	if err != nil {
		t.Fatal(err)
	}
	sim, err := e.NewSimulatorBySetting(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 只有一種圖標，每局必中 3 連：4 × 1 × 2
	st, _, err := sim.Sim(2, 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if st.Summary.TotalWin != 100*8 || st.Summary.RTP != 4 {
		t.Fatalf("unexpected summary %+v", st.Summary)
	}
}
