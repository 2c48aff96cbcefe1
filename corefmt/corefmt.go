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

// Package corefmt 負責 RNG 快照在傳輸層的文字編碼。
//
// 快照本身是 opaque bytes，對外一律以 Base64URL（無 padding）表示，可直接放進 JSON 或 query string。
package corefmt

import (
	"encoding/base64"

	"github.com/zintix-labs/slotengine/errs"
)

// MaxStateLen 快照解碼後的長度上限，超過視為非法輸入。
const MaxStateLen = 4 << 10

func EncodeState(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeState 解碼失敗屬於請求錯誤，回傳 Warn。
func DecodeState(s string) ([]byte, error) {
	if base64.RawURLEncoding.DecodedLen(len(s)) > MaxStateLen {
		return nil, errs.Warnf("state too long: %d chars", len(s))
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Warnf("decode base64url state failed: %v", err)
	}
	return b, nil
}
