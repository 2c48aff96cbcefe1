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

package app

import (
	"context"
	"sync"
)

// Component 任何可啟動、可關閉的長生命週期元件。
//   - Run 為阻塞呼叫，直到元件停止。
//   - Shutdown(ctx) 要求優雅關閉，需尊重 ctx deadline。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// OnShutdown 把一個只需要在關閉時清理的資源（例如機台池、logger）包成 Component：
// Run 阻塞到 Shutdown 被呼叫，Shutdown 執行 fn 一次。
func OnShutdown(name string, fn func()) Component {
	return &hook{name: name, fn: fn, done: make(chan struct{})}
}

type hook struct {
	name string
	fn   func()
	once sync.Once
	done chan struct{}
}

func (h *hook) Run() error {
	<-h.done
	return nil
}

func (h *hook) Shutdown(context.Context) error {
	h.once.Do(func() {
		if h.fn != nil {
			h.fn()
		}
		close(h.done)
	})
	return nil
}

func (h *hook) String() string { return h.name }
