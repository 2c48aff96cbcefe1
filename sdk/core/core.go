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

// Package core 定義引擎所需的亂數來源抽象。
//
// 引擎本身不持有任何全域亂數：抽盤面時由呼叫端注入 RAND，
// 測試可注入 Scripted 以重現固定盤面。
package core

import (
	"crypto/rand"
	"encoding/binary"
)

// PRNG 是可取樣且可快照/還原的亂數來源。Machine 需要它來支援回放。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// bounded 取樣（UintN / IntN）交由實作決定演算法，
// 權重抽樣只依賴 UintN，因此 scripted 實作可以直接指定抽中的累積權重值。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的亂數，max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的亂數，max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作同一版本下 New(seed) 必須是決定性的，
// 相同 seed 產生相同序列。Engine 只以 seed 建立 PRNG，seed 由 Engine 統一派生。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 以 PCG64 實作 PRNGFactory。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝一條 PRNG 串流，Machine 以它抽盤面。
type Core struct {
	PRNG
}

func New(rng PRNG) *Core {
	return &Core{rng}
}

// CryptoSeed 由 crypto/rand 產生非負 int64 seed。
func CryptoSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
