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

package spec

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/errs"
)

const miniYAML = `
game_name: t
game_id: 9
reel_count: 3
row_count: 2
symbols:
  - { id: a, value: 1, weight: 1 }
  - { id: w, value: 5, weight: 1 }
  - { id: s, value: 2, weight: 1 }
wild: w
scatter: s
paylines: [[0, 0, 0], [1, 1, 1]]
bet_range: { min: 1, max: 10 }
`

func TestClassicConfigLoads(t *testing.T) {
	data, err := demo_configs.FS.ReadFile("classic_fruits.yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	s, err := GetSlotSettingByName("classic_fruits.yaml", data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ReelCount != 5 || s.RowCount != 3 || len(s.Symbols) != 9 || len(s.Paylines) != 25 {
		t.Fatalf("unexpected shape: %s", s)
	}
	if s.BetRange != (BetRange{Min: 1, Max: 100, Default: 10}) {
		t.Fatalf("bet range %+v", s.BetRange)
	}
	if Multiplier(s.LineMultipliers, 5) != 25 || Multiplier(s.ScatterMultipliers, 4) != 10 || Multiplier(s.LineMultipliers, 9) != 1 {
		t.Fatalf("multiplier lookup wrong")
	}
}

func TestDefaultsApplied(t *testing.T) {
	s, err := GetSlotSettingByYAML([]byte(miniYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.BetRange.Default != 1 || s.BetStep != 1 || s.InitialBalance != 1000 {
		t.Fatalf("wallet defaults not applied: %+v step=%d bal=%d", s.BetRange, s.BetStep, s.InitialBalance)
	}
	if Multiplier(s.LineMultipliers, 3) != 1 || Multiplier(s.LineMultipliers, 4) != 5 ||
		Multiplier(s.ScatterMultipliers, 3) != 2 || Multiplier(s.ScatterMultipliers, 5) != 50 {
		t.Fatalf("multiplier defaults not applied")
	}
	if s.WinTiers != (WinTiers{Big: 10, Mega: 20}) {
		t.Fatalf("win tiers %+v", s.WinTiers)
	}
}

func TestJSONMatchesYAML(t *testing.T) {
	js := `{"game_name":"t","game_id":9,"reel_count":3,"row_count":2,
	"symbols":[{"id":"a","value":1,"weight":1},{"id":"w","value":5,"weight":1},{"id":"s","value":2,"weight":1}],
	"wild":"w","scatter":"s","paylines":[[0,0,0],[1,1,1]],"bet_range":{"min":1,"max":10},
	"line_multipliers":{"3":2}}`
	s, err := GetSlotSettingByName("t.json", []byte(js))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if Multiplier(s.LineMultipliers, 3) != 2 || Multiplier(s.LineMultipliers, 4) != 1 {
		t.Fatalf("custom multipliers should replace defaults")
	}
}

func TestStrictDecoding(t *testing.T) {
	if _, err := GetSlotSettingByYAML([]byte(miniYAML + "reel_cnt: 3\n")); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("unknown yaml field should be rejected, got %v", err)
	}
	if _, err := GetSlotSettingByJSON([]byte(`{"game_nam":"x"}`)); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("unknown json field should be rejected, got %v", err)
	}
	if _, err := GetSlotSettingByName("x.toml", nil); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("unsupported extension should be rejected")
	}
}

func TestInvalidSettings(t *testing.T) {
	cases := []struct {
		name     string
		replace  [2]string
		sentinel error
	}{
		{"payline row out of range", [2]string{"[1, 1, 1]]", "[1, 2, 1]]"}, errs.ErrConfig},
		{"payline length", [2]string{"[1, 1, 1]]", "[1, 1]]"}, errs.ErrConfig},
		{"unknown wild", [2]string{"wild: w", "wild: x"}, errs.ErrUnknownSymbol},
		{"unknown scatter", [2]string{"scatter: s", "scatter: zz"}, errs.ErrUnknownSymbol},
		{"zero weight", [2]string{"{ id: a, value: 1, weight: 1 }", "{ id: a, value: 1, weight: 0 }"}, errs.ErrConfig},
		{"duplicate id", [2]string{"id: s,", "id: a,"}, errs.ErrConfig},
		{"bet range", [2]string{"{ min: 1, max: 10 }", "{ min: 5, max: 2 }"}, errs.ErrConfig},
		{"default outside", [2]string{"{ min: 1, max: 10 }", "{ min: 1, max: 10, default: 11 }"}, errs.ErrConfig},
		{"dimensions", [2]string{"row_count: 2", "row_count: 0"}, errs.ErrConfig},
		{"line payout overflow", [2]string{"{ id: a, value: 1,", "{ id: a, value: 2305843009213693952,"}, errs.ErrConfig},
		{"scatter payout overflow", [2]string{"{ id: s, value: 2,", "{ id: s, value: 23058430092136939,"}, errs.ErrConfig},
		{"multiplier overflow", [2]string{"bet_range:", "line_multipliers: { 3: 4611686018427387904 }\nbet_range:"}, errs.ErrConfig},
	}
	for _, c := range cases {
		src := strings.Replace(miniYAML, c.replace[0], c.replace[1], 1)
		if src == miniYAML {
			t.Fatalf("%s: replacement did not apply", c.name)
		}
		_, err := GetSlotSettingByYAML([]byte(src))
		if !errors.Is(err, c.sentinel) {
			t.Fatalf("%s: want %v, got %v", c.name, c.sentinel, err)
		}
		if errs.Level(err) != errs.Fatal {
			t.Fatalf("%s: config errors should be fatal", c.name)
		}
	}
}

func TestPayoutBoundEdge(t *testing.T) {
	// 預設連線最大倍數 25，bet 上限 10
	limit := int64(math.MaxInt64) / (25 * 10)
	src := strings.Replace(miniYAML, "{ id: a, value: 1,", fmt.Sprintf("{ id: a, value: %d,", limit), 1)
	if _, err := GetSlotSettingByYAML([]byte(src)); err != nil {
		t.Fatalf("largest safe value rejected: %v", err)
	}
	src = strings.Replace(miniYAML, "{ id: a, value: 1,", fmt.Sprintf("{ id: a, value: %d,", limit+1), 1)
	if _, err := GetSlotSettingByYAML([]byte(src)); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("value one past the bound should be config error, got %v", err)
	}
}

func TestBetRangeHelpers(t *testing.T) {
	br := BetRange{Min: 1, Max: 100, Default: 10}
	if !br.Contains(1) || !br.Contains(100) || br.Contains(0) || br.Contains(101) {
		t.Fatalf("contains wrong")
	}
	if br.Clamp(-3) != 1 || br.Clamp(500) != 100 || br.Clamp(42) != 42 {
		t.Fatalf("clamp wrong")
	}
}
