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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		got := float64(counts[i]) / float64(len(samples))
		want := float64(w) / float64(totalW)
		if math.Abs(got-want) > tolerance {
			t.Fatalf("%s: idx %d freq %.4f want %.4f (tol %.4f)", name, i, got, want, tolerance)
		}
	}
}

func TestCumulativeIndexBoundaries(t *testing.T) {
	tb, err := BuildCumulative([]int{3, 5, 0, 2})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tb.Total() != 10 || tb.Len() != 4 {
		t.Fatalf("total %d len %d", tb.Total(), tb.Len())
	}
	cases := map[uint64]int{0: 0, 2: 0, 3: 1, 7: 1, 8: 3, 9: 3}
	for u, want := range cases {
		if got := tb.Index(u); got != want {
			t.Fatalf("Index(%d) got %d want %d", u, got, want)
		}
	}
}

func TestCumulativeDistribution(t *testing.T) {
	weights := []int{25, 20, 18, 15, 12, 8, 5, 3, 2}
	tb, err := BuildCumulative(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rng := core.Default().New(2025)
	n := 200_000
	samples := make([]int, n)
	for i := range samples {
		samples[i] = tb.Pick(rng)
	}
	checkDistribution(t, "classic", weights, samples, 0.005)
}

func TestCumulativePickScripted(t *testing.T) {
	tb, _ := BuildCumulative([]uint16{1, 1, 1})
	rng := core.NewScripted(2, 0, 1)
	got := []int{tb.Pick(rng), tb.Pick(rng), tb.Pick(rng)}
	want := []int{2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pick %d got %d want %d", i, got[i], want[i])
		}
	}
}

func TestCumulativeRejectsBadWeights(t *testing.T) {
	bad := map[string][]int64{
		"empty":    {},
		"negative": {3, -1},
		"zero":     {0, 0},
		"overflow": {math.MaxInt64, 1},
	}
	for name, w := range bad {
		if _, err := BuildCumulative(w); !errors.Is(err, errs.ErrConfig) {
			t.Fatalf("%s: want ErrConfig, got %v", name, err)
		}
	}
}

func TestCumulativeStart(t *testing.T) {
	tb, _ := BuildCumulative([]int{3, 5, 2})
	for i, want := range []uint64{0, 3, 8} {
		if got := tb.Start(i); got != want {
			t.Fatalf("Start(%d) got %d want %d", i, got, want)
		}
		if tb.Index(tb.Start(i)) != i {
			t.Fatalf("Index(Start(%d)) should be %d", i, i)
		}
	}
}
