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

// Package errs 提供全專案共用的錯誤型別 *E 與錯誤分級。
//
// 分級讓最上層（HTTP / CLI / runtime）只看 ErrLv 就能決定處置方式：
// Warn 回報給呼叫端即可，Fatal 代表設定或程式錯誤，需要中止該次呼叫並記錄。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : 錯誤嚴重度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為附加上下文；Cause 串接下層錯誤（含領域 sentinel）。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(lv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: lv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Wrap 以 msg 包裝 cause。
//
// 若 cause 鏈上已有 *E，沿用其 ErrLv；否則（標準庫或三方錯誤）一律視為 Fatal。
// 已知可處理的情境請直接用 New 指定等級，不要 Wrap。
func Wrap(cause error, msg string) *E {
	lv := Fatal
	if e, ok := AsErr(cause); ok {
		lv = e.ErrLv
	}
	r := New(lv, msg)
	r.Cause = cause
	return r
}

// Wrapf 同 Wrap，訊息可格式化。
func Wrapf(cause error, format string, a ...any) *E {
	return Wrap(cause, fmt.Sprintf(format, a...))
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Level 回傳 err 鏈上第一個 *E 的等級；非 *E 視為 Fatal，nil 為 None。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
