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

package gen

import (
	"math"
	"testing"

	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/sdk/symbol"
	"github.com/zintix-labs/slotengine/spec"
)

func testSource(t *testing.T) *ReelSource {
	t.Helper()
	cat, err := symbol.NewCatalog([]spec.SymbolDef{
		{ID: "cherry", Value: 10, Weight: 5},
		{ID: "lemon", Value: 15, Weight: 3},
		{ID: "wild", Value: 500, Weight: 2},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	src, err := NewReelSource(cat)
	if err != nil {
		t.Fatalf("reel source: %v", err)
	}
	return src
}

func TestDrawScripted(t *testing.T) {
	src := testSource(t)
	if src.TotalWeight() != 10 {
		t.Fatalf("total weight %d", src.TotalWeight())
	}
	// [0,5) cherry, [5,8) lemon, [8,10) wild
	rng := core.NewScripted(0, 4, 5, 7, 8, 9)
	want := []string{"cherry", "cherry", "lemon", "lemon", "wild", "wild"}
	for i, w := range want {
		if got := src.Draw(rng); got != w {
			t.Fatalf("draw %d got %s want %s", i, got, w)
		}
	}
}

func TestDrawConverges(t *testing.T) {
	src := testSource(t)
	rng := core.Default().New(99)
	n := 100_000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[src.Draw(rng)]++
	}
	for id, w := range map[string]float64{"cherry": 0.5, "lemon": 0.3, "wild": 0.2} {
		got := float64(counts[id]) / float64(n)
		if math.Abs(got-w) > 0.01 {
			t.Fatalf("%s freq %.4f want %.2f", id, got, w)
		}
	}
}

func TestAssembleOrder(t *testing.T) {
	src := testSource(t)
	// reel 0 rows 0..2, then reel 1
	rng := core.NewScripted(0, 5, 8, 8, 5, 0)
	g := Assemble(2, 3, src, rng)
	want := slot.Grid{{"cherry", "lemon", "wild"}, {"wild", "lemon", "cherry"}}
	for reel := range want {
		for row := range want[reel] {
			if g[reel][row] != want[reel][row] {
				t.Fatalf("cell (%d,%d) got %s want %s", reel, row, g[reel][row], want[reel][row])
			}
		}
	}
	if rng.Pos() != 6 {
		t.Fatalf("expected exactly 6 draws, got %d", rng.Pos())
	}
}

func TestAssembleDeterministic(t *testing.T) {
	src := testSource(t)
	g1 := Assemble(5, 3, src, core.Default().New(7))
	g2 := Assemble(5, 3, src, core.Default().New(7))
	if g1.String() != g2.String() {
		t.Fatalf("same seed should give same grid")
	}
}

func TestScriptForReplaysGrid(t *testing.T) {
	src := testSource(t)
	want := slot.Grid{{"wild", "cherry"}, {"lemon", "lemon"}, {"cherry", "wild"}}
	vals, ok := ScriptFor(src, want)
	if !ok {
		t.Fatalf("script should resolve")
	}
	got := Assemble(3, 2, src, core.NewScripted(vals...))
	if got.String() != want.String() {
		t.Fatalf("replay got\n%swant\n%s", got, want)
	}
	if _, ok := ScriptFor(src, slot.Grid{{"kiwi"}}); ok {
		t.Fatalf("unknown symbol should fail")
	}
}
