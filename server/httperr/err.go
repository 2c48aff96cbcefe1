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

// Package httperr 把 errs 的錯誤種類與分級映射成 HTTP status，並以 JSON 寫回。
package httperr

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 優先序：ctx 超時/取消 → 領域錯誤種類 → 錯誤分級（Warn 400、其餘 500）。
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errs.ErrInvalidBet):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, errs.ErrConfig), errors.Is(err, errs.ErrUnknownSymbol):
		return http.StatusUnprocessableEntity
	}
	if errs.Level(err) == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs 寫回 JSON 錯誤。5xx 只回通用訊息，細節留在 log。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	msg := err.Error()
	if status >= 500 && status != http.StatusGatewayTimeout {
		msg = "internal error"
	}
	_ = dto.WriteJSON(w, status, dto.ErrorBody{
		Error:  msg,
		Level:  errs.Level(err).String(),
		Status: status,
	})
}

// NotFound 資源不存在（gid / session id）
func NotFound(w http.ResponseWriter, msg string) {
	_ = dto.WriteJSON(w, http.StatusNotFound, dto.ErrorBody{Error: msg, Level: errs.Warn.String(), Status: http.StatusNotFound})
}

// Log 依 status 決定是否與用什麼等級記錄。4xx 裡只記 408 / 409 / 429。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	case status == http.StatusRequestTimeout || status == http.StatusConflict || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
