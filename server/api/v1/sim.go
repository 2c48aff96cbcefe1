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
	"net/http"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/server/httperr"
	"github.com/zintix-labs/slotengine/spec"
	"github.com/zintix-labs/slotengine/stats"
)

// SimResponse 模擬結果。est 只在玩家模擬時出現。
type SimResponse struct {
	Stats     *stats.StatReport       `json:"stats"`
	Estimator *stats.EstimatorPlayers `json:"est,omitempty"`
	UsedTime  int64                   `json:"used_ms"`
	Seed      int64                   `json:"seed"`
}

// Sim GET|POST /v1/games/{gid}/sim
func (h *Handler) Sim(w http.ResponseWriter, r *http.Request) {
	s, ok := h.setting(w, r)
	if !ok {
		return
	}
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := req.Valid(h.simLimits); err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := h.rt.Engine().NewSimulatorWithSeed(s.GameID, seedOf(req))
	if err != nil {
		h.fail(w, "build simulator failed", errs.Wrapf(err, "build simulator err: %d", s.GameID))
		return
	}
	h.runSim(w, sim, req)
}

// SimByConfig POST /v1/sim/config：以請求內的設定試算，不影響已載入的遊戲。
func (h *Handler) SimByConfig(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimByConfigRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := req.Valid(h.simLimits); err != nil {
		httperr.Errs(w, err)
		return
	}
	setting, err := spec.GetSlotSettingByJSON(req.Config)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := h.rt.Engine().NewSimulatorBySetting(setting, seedOf(&req.SimRequest))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.runSim(w, sim, &req.SimRequest)
}

func (h *Handler) runSim(w http.ResponseWriter, sim *slotengine.Simulator, req *dto.SimRequest) {
	resp := SimResponse{Seed: sim.Seed()}
	if req.Players > 0 {
		st, est, used, err := sim.SimPlayers(req.Workers, req.Players, req.InitBets, req.Bet, req.Rounds, false)
		if err != nil {
			h.fail(w, "simulate players failed", err)
			return
		}
		resp.Stats, resp.Estimator, resp.UsedTime = st, est, used.Milliseconds()
	} else {
		st, used, err := sim.SimMP(req.Bet, req.Rounds, req.Workers, false)
		if err != nil {
			h.fail(w, "simulate failed", err)
			return
		}
		resp.Stats, resp.UsedTime = st, used.Milliseconds()
	}
	h.ok(w, resp)
}

// seedOf 未指定 seed 時以 crypto/rand 產生，並回填到請求上。
func seedOf(req *dto.SimRequest) int64 {
	if req.Seed == nil {
		v := core.CryptoSeed()
		req.Seed = &v
	}
	return *req.Seed
}
