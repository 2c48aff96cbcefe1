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

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/server/httperr"
	"github.com/zintix-labs/slotengine/server/netsvr"
)

// SessionSpinResponse 一局結果與結算後的錢包
type SessionSpinResponse struct {
	Result  dto.SpinResult          `json:"result"`
	Session slotengine.SessionState `json:"session"`
}

// CreateSession POST /v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSessionRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if _, ok := h.rt.Engine().Catalog().GetByID(req.GID); !ok {
		httperr.NotFound(w, "game not found")
		return
	}
	ss, err := h.sessions.Create(req.GID)
	if err != nil {
		h.fail(w, "create session failed", err)
		return
	}
	if err := dto.WriteJSON(w, http.StatusCreated, ss.State()); err != nil {
		h.log.Warn("write response failed")
	}
}

// GetSession GET /v1/sessions/{sid}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.session(w, r)
	if !ok {
		return
	}
	h.ok(w, ss.State())
}

// DeleteSession DELETE /v1/sessions/{sid}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Delete(ss.ID)
	w.WriteHeader(http.StatusNoContent)
}

// SessionSpin POST /v1/sessions/{sid}/spin：以目前下注扣款、轉一局、派彩。
func (h *Handler) SessionSpin(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.spinTimeout)
	defer cancel()

	res, err := ss.Spin(func(bet int) (slot.SpinResult, error) {
		return h.rt.Spin(ctx, ss.GID, bet)
	})
	if err != nil {
		h.fail(w, "session spin failed", err)
		return
	}
	h.ok(w, SessionSpinResponse{Result: dto.NewSpinResultDTO(res.Result), Session: res.State})
}

// SessionBet POST /v1/sessions/{sid}/bet/{dir}：dir 為 up、down 或指定下注額。
func (h *Handler) SessionBet(w http.ResponseWriter, r *http.Request) {
	ss, ok := h.session(w, r)
	if !ok {
		return
	}
	change, err := dto.ParseBetChange(netsvr.URLParam(r, "dir"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	switch {
	case change.Step > 0:
		ss.IncreaseBet()
	case change.Step < 0:
		ss.DecreaseBet()
	default:
		if err := ss.SetBet(change.Value); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
	h.ok(w, ss.State())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*slotengine.Session, bool) {
	sid := netsvr.URLParam(r, "sid")
	ss, err := h.sessions.Get(sid)
	if err != nil {
		httperr.NotFound(w, "session "+sid+" not found")
		return nil, false
	}
	return ss, true
}
