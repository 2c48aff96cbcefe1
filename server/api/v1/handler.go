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

// Package v1 HTTP API 第一版：遊戲清單、單局、算分、模擬、統計與玩家 session。
package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/server/httperr"
	"github.com/zintix-labs/slotengine/server/logger"
	"github.com/zintix-labs/slotengine/server/netsvr"
	"github.com/zintix-labs/slotengine/spec"
)

// Handler 持有 v1 所有 endpoint 共用的依賴。
type Handler struct {
	log         *slog.Logger
	rt          *slotengine.SlotRuntime
	sessions    *slotengine.SessionStore
	simLimits   dto.SimLimits
	spinTimeout time.Duration
}

type Deps struct {
	Log         *slog.Logger
	Runtime     *slotengine.SlotRuntime
	Sessions    *slotengine.SessionStore
	SimLimits   dto.SimLimits
	SpinTimeout time.Duration
}

func NewHandler(d Deps) (*Handler, error) {
	if d.Runtime == nil {
		return nil, errs.NewFatal("v1 handler: runtime is required")
	}
	if d.Sessions == nil {
		return nil, errs.NewFatal("v1 handler: session store is required")
	}
	if d.Log == nil {
		d.Log = slog.New(logger.NewHandler(logger.ModeSilence, nil))
	}
	return &Handler{
		log:         d.Log,
		rt:          d.Runtime,
		sessions:    d.Sessions,
		simLimits:   d.SimLimits,
		spinTimeout: d.SpinTimeout,
	}, nil
}

// Register 掛載 v1 路由
func (h *Handler) Register(r netsvr.NetRouter) {
	r.Get("/games", h.Games)
	r.Get("/games/{gid}", h.Game)
	r.Get("/games/{gid}/spin", h.Spin)
	r.Post("/games/{gid}/spin", h.Spin)
	r.Post("/games/{gid}/evaluate", h.Evaluate)
	r.Get("/games/{gid}/sim", h.Sim)
	r.Post("/games/{gid}/sim", h.Sim)

	r.Post("/sim/config", h.SimByConfig)
	r.Post("/stat", h.Stat)
	r.Get("/metrics", h.Metrics)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/{sid}", h.GetSession)
	r.Delete("/sessions/{sid}", h.DeleteSession)
	r.Post("/sessions/{sid}/spin", h.SessionSpin)
	r.Post("/sessions/{sid}/bet/{dir}", h.SessionBet)
}

// setting 解析路徑上的 gid；不存在時直接寫回 404 並回傳 false。
func (h *Handler) setting(w http.ResponseWriter, r *http.Request) (*spec.SlotSetting, bool) {
	raw := netsvr.URLParam(r, "gid")
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.Errs(w, errs.Warnf("gid must be non-negative integer, got %q", raw))
		return nil, false
	}
	s, err := h.rt.Engine().Setting(spec.GID(u))
	if err != nil {
		httperr.NotFound(w, "game "+raw+" not found")
		return nil, false
	}
	return s, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Errs(w, err)
}

func (h *Handler) ok(w http.ResponseWriter, v any) {
	if err := dto.WriteJSON(w, http.StatusOK, v); err != nil {
		h.log.Warn("write response failed", slog.Any("err", err))
	}
}
