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

// Package netsvr 把 HTTP 路由與 server 生命週期抽象成介面，handler 與 middleware 一律走 net/http。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/slotengine/server/app"
)

// NetSvr 可路由、可啟停的 HTTP server，可直接交給 app.App 管理。
type NetSvr interface {
	NetRouter
	app.Component
	Address() string
}

// NetRouter 純路由行為。Group 回呼只拿得到 NetRouter，無法控制 server 啟停。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))

	// Handler 回傳根 handler，供測試或掛載到既有服務。
	Handler() http.Handler
}
