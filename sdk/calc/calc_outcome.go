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

package calc

import "github.com/zintix-labs/slotengine/sdk/slot"

// Aggregate 彙總連線獎與 scatter 獎。總額為單純加總，與順序無關。
func Aggregate(lines []slot.LineWin, scatter *slot.ScatterWin) slot.SpinOutcome {
	if lines == nil {
		lines = []slot.LineWin{}
	}
	var total int64
	for _, lw := range lines {
		total += lw.Amount
	}
	if scatter != nil {
		total += scatter.Amount
	}
	return slot.SpinOutcome{Lines: lines, Scatter: scatter, Total: total}
}
