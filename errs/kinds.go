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

package errs

import (
	"errors"
	"fmt"
)

// 領域錯誤種類。呼叫端以 errors.Is 判斷，不要比對訊息字串。
var (
	ErrInvalidBet          = errors.New("invalid bet")
	ErrConfig              = errors.New("config error")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func kind(lv ErrLevel, sentinel error, format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), Cause: sentinel, ErrLv: lv}
}

// InvalidBet : 下注不在 bet range 內，在抽盤面前就拒絕。
func InvalidBet(bet, min, max int) *E {
	return kind(Warn, ErrInvalidBet, "bet %d out of range [%d, %d]", bet, min, max)
}

// Config : 盤面尺寸、payline 或設定檔內容錯誤。
func Config(format string, a ...any) *E {
	return kind(Fatal, ErrConfig, format, a...)
}

// UnknownSymbol : id 不在 symbol catalog 中。
func UnknownSymbol(id string) *E {
	return kind(Fatal, ErrUnknownSymbol, "symbol %q not registered", id)
}

func InsufficientBalance(balance, bet string) *E {
	return kind(Warn, ErrInsufficientBalance, "balance %s below bet %s", balance, bet)
}
