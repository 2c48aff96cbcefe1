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
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/slot"
)

// Assemble 以 src 逐格抽出 reelCount × rowCount 盤面。
//
// 抽樣順序固定：reel 0 由上到下，接著 reel 1，依此類推。
// 相同的 RNG 序列永遠得到相同盤面。
func Assemble(reelCount, rowCount int, src Drawer, r core.RAND) slot.Grid {
	g := slot.NewGrid(reelCount, rowCount)
	for reel := 0; reel < reelCount; reel++ {
		for row := 0; row < rowCount; row++ {
			g[reel][row] = src.Draw(r)
		}
	}
	return g
}

// ScriptFor 回傳一組抽樣值，餵給 core.Scripted 後 Assemble 會得到 g。
// 用於測試與以盤面回放；g 中有未註冊的 id 時 ok 為 false。
func ScriptFor(src *ReelSource, g slot.Grid) (values []uint64, ok bool) {
	for _, col := range g {
		for _, id := range col {
			v, found := src.ValueFor(id)
			if !found {
				return nil, false
			}
			values = append(values, v)
		}
	}
	return values, true
}
