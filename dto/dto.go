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

package dto

import (
	"github.com/zintix-labs/slotengine/catalog"
	"github.com/zintix-labs/slotengine/corefmt"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

// SpinResult 對外輸出的一局結果
type SpinResult struct {
	GameName string           `json:"game"`
	GameID   spec.GID         `json:"gameid"`
	Bet      int              `json:"bet"`
	Win      int64            `json:"win"`
	Tier     slot.WinTier     `json:"tier"`
	Bonus    bool             `json:"bonus"` // scatter 觸發 bonus
	Grid     slot.Grid        `json:"grid"`
	Lines    []slot.LineWin   `json:"lines"`
	Scatter  *slot.ScatterWin `json:"scatter,omitempty"`
	State    SpinState        `json:"spin_state"`
}

// SpinState RNG 快照。回放帶 start_b64u；續玩把 after_b64u 當作下一局的 start_b64u。
type SpinState struct {
	StartB64U string `json:"start_b64u"`
	AfterB64U string `json:"after_b64u"`
}

func NewSpinResultDTO(sr slot.SpinResult) SpinResult {
	return SpinResult{
		GameName: sr.GameName,
		GameID:   sr.GameID,
		Bet:      sr.Bet,
		Win:      sr.Outcome.Total,
		Tier:     sr.Tier,
		Bonus:    sr.Outcome.TriggersBonus(),
		Grid:     sr.Grid,
		Lines:    nonNilLines(sr.Outcome.Lines),
		Scatter:  sr.Outcome.Scatter,
		State: SpinState{
			StartB64U: corefmt.EncodeState(sr.StartState),
			AfterB64U: corefmt.EncodeState(sr.AfterState),
		},
	}
}

// EvaluateResult 對指定盤面算分的結果
type EvaluateResult struct {
	GameID  spec.GID         `json:"gameid"`
	Bet     int              `json:"bet"`
	Win     int64            `json:"win"`
	Tier    slot.WinTier     `json:"tier"`
	Bonus   bool             `json:"bonus"`
	Lines   []slot.LineWin   `json:"lines"`
	Scatter *slot.ScatterWin `json:"scatter,omitempty"`
}

func NewEvaluateResultDTO(gid spec.GID, bet int, out slot.SpinOutcome, tier slot.WinTier) EvaluateResult {
	return EvaluateResult{
		GameID:  gid,
		Bet:     bet,
		Win:     out.Total,
		Tier:    tier,
		Bonus:   out.TriggersBonus(),
		Lines:   nonNilLines(out.Lines),
		Scatter: out.Scatter,
	}
}

// GameList GET /v1/games
type GameList struct {
	Games []catalog.Summary `json:"games"`
}

// ErrorBody 錯誤回應
type ErrorBody struct {
	Error  string `json:"error"`
	Level  string `json:"level"`
	Status int    `json:"status"`
}

func nonNilLines(l []slot.LineWin) []slot.LineWin {
	if l == nil {
		return []slot.LineWin{}
	}
	return l
}
