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

// Package server 組裝並啟動 HTTP 服務：runtime、session store、路由與生命週期。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/server/api"
	"github.com/zintix-labs/slotengine/server/app"
	"github.com/zintix-labs/slotengine/server/netsvr"
	"github.com/zintix-labs/slotengine/server/svrcfg"
)

// 模擬請求可能跑上一段時間，寫出期限放寬到分鐘級。
const writeTimeout = 2 * time.Minute

// Run 以預設的 chi server 啟動服務，直到 ctx 結束或收到 SIGINT / SIGTERM。
//
// Run 不讀檔也不讀環境變數，所有依賴都由 SvrCfg 注入。
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(ctx, sCfg, netsvr.NewChiServer(sCfg.Addr, writeTimeout))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 listener、TLS 或其他 router adapter）。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}

	rt, err := sCfg.Engine.BuildRuntime(sCfg.PoolSize)
	if err != nil {
		return errs.Wrap(err, "build runtime failed")
	}
	store := slotengine.NewSessionStore(sCfg.Engine, sCfg.SessionLimit)
	if err := api.RegisterRoutes(svr, sCfg, rt, store); err != nil {
		rt.Close()
		return err
	}

	// 反序關閉：先停 HTTP，再關 runtime。
	a := app.NewWith(sCfg.Log, app.OnShutdown("runtime", rt.Close), svr)
	sCfg.Log.Info("[slotengine] listening", slog.String("addr", svr.Address()), slog.Int("games", len(rt.IDs())))
	if err := a.Run(ctx); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
