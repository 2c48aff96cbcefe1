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

package slot

import "github.com/zintix-labs/slotengine/spec"

// SpinResult Machine.Spin 的完整輸出：盤面、算分結果、獎項分級與前後 RNG 狀態。
//
// StartState 可交給 Machine.Replay 重現同一局。
type SpinResult struct {
	GameID     spec.GID
	GameName   string
	Bet        int
	Grid       Grid
	Outcome    SpinOutcome
	Tier       WinTier
	StartState []byte
	AfterState []byte
}
