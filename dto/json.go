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

// Package dto 定義 HTTP 邊界的請求與回應結構，以及 JSON 編解碼。
//
// 請求一律嚴格解碼（拒絕未知欄位、限制 body 大小）；合法性（gid 是否存在、bet 是否在範圍內）由上層決定。
package dto

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/slotengine/errs"
)

// MaxBody 一般請求 body 上限
const MaxBody = 1 << 20

// JSON 回應編碼使用的設定
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

var strict = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// DecodeJSON 以嚴格模式解碼 body 到 v，超過 limit bytes 視為錯誤。
func DecodeJSON(r io.Reader, v any, limit int64) error {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	if err := strict.NewDecoder(lr).Decode(v); err != nil {
		if lr.N <= 0 {
			return errs.Warnf("request body exceeds %d bytes", limit)
		}
		return errs.Warnf("invalid json: %v", err)
	}
	return nil
}

// WriteJSON 先編碼到記憶體再寫出，避免寫到一半才發生錯誤。
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	b, err := JSON.Marshal(v)
	if err != nil {
		return errs.Wrap(err, "encode response")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(append(b, '\n'))
	return err
}
