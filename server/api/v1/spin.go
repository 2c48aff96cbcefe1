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

package v1

import (
	"context"
	"net/http"

	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/server/httperr"
)

// Spin GET|POST /v1/games/{gid}/spin
//
// 帶 start_b64u 時以該快照回放，結果與原局相同。
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	s, ok := h.setting(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeSpinRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	start, err := req.StartState()
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.spinTimeout)
	defer cancel()

	var res slot.SpinResult
	if start != nil {
		res, err = h.rt.Replay(ctx, s.GameID, start, req.Bet)
	} else {
		res, err = h.rt.Spin(ctx, s.GameID, req.Bet)
	}
	if err != nil {
		h.fail(w, "spin failed", err)
		return
	}
	h.ok(w, dto.NewSpinResultDTO(res))
}

// Evaluate POST /v1/games/{gid}/evaluate：對呼叫端給的盤面算分，不消耗 RNG。
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.setting(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeEvaluateRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	out, err := h.rt.Evaluate(r.Context(), s.GameID, req.Grid, req.Bet)
	if err != nil {
		h.fail(w, "evaluate failed", err)
		return
	}
	tier := slot.ClassifyWin(out.Total, int64(req.Bet), s.WinTiers)
	h.ok(w, dto.NewEvaluateResultDTO(s.GameID, req.Bet, out, tier))
}
