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

package api

import (
	"net/http"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/dto"
	v1 "github.com/zintix-labs/slotengine/server/api/v1"
	"github.com/zintix-labs/slotengine/server/netsvr"
	"github.com/zintix-labs/slotengine/server/netsvr/middleware"
	"github.com/zintix-labs/slotengine/server/svrcfg"
)

// RegisterRoutes 註冊 middleware、健康檢查與 v1 api。
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, rt *slotengine.SlotRuntime, store *slotengine.SessionStore) error {
	h, err := v1.NewHandler(v1.Deps{
		Log:         sCfg.Log,
		Runtime:     rt,
		Sessions:    store,
		SimLimits:   sCfg.Sim,
		SpinTimeout: sCfg.SpinTimeout,
	})
	if err != nil {
		return err
	}
	registerMiddleware(svr, sCfg)
	svr.Get("/healthz", healthz(rt))
	svr.Group("/v1", h.Register)
	return nil
}

// 順序：request id 需在 access log 之前；recover 包住之後所有 handler。
func registerMiddleware(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	if len(sCfg.AllowedOrigins) > 0 {
		svr.Use(middleware.CORS(sCfg.AllowedOrigins))
	}
	svr.Use(middleware.Compression)
}

func healthz(rt *slotengine.SlotRuntime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rt.Closed() {
			_ = dto.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "closed", "reason": rt.ClosedReason()})
			return
		}
		_ = dto.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
