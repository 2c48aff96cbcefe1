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

package core

import (
	"encoding/binary"
	"fmt"
)

// Scripted 依序回放預先指定的數值，用於測試與重現固定盤面。
//
// UintN / IntN 回傳 values[i] % n，因此只要指定小於總權重的值，
// 就能精準決定每一格抽到的 symbol。數列用完後從頭循環。
type Scripted struct {
	values []uint64
	pos    int
}

func NewScripted(values ...uint64) *Scripted {
	if len(values) == 0 {
		values = []uint64{0}
	}
	return &Scripted{values: values}
}

func (s *Scripted) next() uint64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Scripted) Uint64() uint64 { return s.next() }

func (s *Scripted) Float64() float64 {
	return float64(s.next()%(1<<53)) / (1 << 53)
}

func (s *Scripted) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(s.next() % uint64(max))
}

func (s *Scripted) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(s.next() % uint64(max))
}

// Pos 回傳已消耗的數值個數；Restore 之後從循環內的位置起算。
func (s *Scripted) Pos() int { return s.pos }

func (s *Scripted) Snapshot() ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, uint64(s.pos)), nil
}

func (s *Scripted) Restore(b []byte) error {
	if len(b) != 8 {
		return fmt.Errorf("scripted snapshot: want 8 bytes, got %d", len(b))
	}
	// 數列循環使用，位置取餘數即可，也避免大於 MaxInt 的值轉成負數。
	s.pos = int(binary.BigEndian.Uint64(b) % uint64(len(s.values)))
	return nil
}
