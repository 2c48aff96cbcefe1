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

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindsMatchSentinels(t *testing.T) {
	cases := []struct {
		err      *E
		sentinel error
		lv       ErrLevel
	}{
		{InvalidBet(0, 1, 100), ErrInvalidBet, Warn},
		{Config("payline %d row %d out of range", 3, 7), ErrConfig, Fatal},
		{UnknownSymbol("kiwi"), ErrUnknownSymbol, Fatal},
		{InsufficientBalance("5", "10"), ErrInsufficientBalance, Warn},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.sentinel) {
			t.Fatalf("%v should match %v", c.err, c.sentinel)
		}
		if c.err.ErrLv != c.lv {
			t.Fatalf("%v level got %s want %s", c.err, c.err.ErrLv, c.lv)
		}
	}
}

func TestWrapKeepsLevelAndKind(t *testing.T) {
	inner := InvalidBet(500, 1, 100)
	outer := Wrap(inner, "spin refused")
	if outer.ErrLv != Warn {
		t.Fatalf("wrap should inherit warn, got %s", outer.ErrLv)
	}
	if !errors.Is(outer, ErrInvalidBet) {
		t.Fatalf("wrapped error lost its kind")
	}
	if !strings.Contains(outer.Error(), "errlv=warn spin refused") {
		t.Fatalf("unexpected message %q", outer.Error())
	}

	plain := Wrap(fmt.Errorf("disk"), "load")
	if plain.ErrLv != Fatal {
		t.Fatalf("foreign cause should be fatal, got %s", plain.ErrLv)
	}
}

func TestLevel(t *testing.T) {
	if Level(nil) != None {
		t.Fatalf("nil should be None")
	}
	if Level(fmt.Errorf("x: %w", NewWarn("w"))) != Warn {
		t.Fatalf("wrapped *E should report its level")
	}
	if Level(errors.New("x")) != Fatal {
		t.Fatalf("foreign error should be fatal")
	}
}
