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

// Package app 管理服務內長期運行元件的啟動與關閉。
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 優雅關閉的總期限
const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有 Component，收到 OS 信號、ctx 結束或任一 Component 停止時，依註冊的反序關閉全部元件。
type App struct {
	comps   []Component
	log     *slog.Logger
	timeout time.Duration
}

func New(log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{log: log, timeout: DefaultShutdownTimeout}
}

// NewWith 建立時直接註冊多個 Component。
func NewWith(log *slog.Logger, comps ...Component) *App {
	a := New(log)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run 阻塞直到結束。因信號或 ctx 結束時回傳 nil；Component 以錯誤結束時回傳該錯誤。
// http.ErrServerClosed 視為正常結束。
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	var err error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown requested")
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			a.log.Error("component stopped", slog.Any("err", err))
		}
	}
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for i := len(a.comps) - 1; i >= 0; i-- {
		if err := a.comps[i].Shutdown(ctx); err != nil {
			a.log.Warn("shutdown err", slog.Any("err", err))
		}
	}
}
