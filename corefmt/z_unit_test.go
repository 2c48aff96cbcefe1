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

package corefmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zintix-labs/slotengine/errs"
)

func TestStateRoundTrip(t *testing.T) {
	in := []byte{0, 1, 2, 0xfe, 0xff, 0x3f}
	s := EncodeState(in)
	if strings.ContainsAny(s, "+/=") {
		t.Fatalf("state %q is not url-safe", s)
	}
	out, err := DecodeState(s)
	if err != nil || !bytes.Equal(in, out) {
		t.Fatalf("round trip got %v, %v", out, err)
	}
}

func TestDecodeStateRejects(t *testing.T) {
	if _, err := DecodeState("***"); errs.Level(err) != errs.Warn {
		t.Fatalf("bad input should be warn, got %v", err)
	}
	long := strings.Repeat("A", MaxStateLen*2)
	_, err := DecodeState(long)
	var e *errs.E
	if !errors.As(err, &e) || e.ErrLv != errs.Warn {
		t.Fatalf("long input should be rejected, got %v", err)
	}
}
