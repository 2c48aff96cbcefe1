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

package slotengine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/slot"
	"github.com/zintix-labs/slotengine/spec"
)

// SpinFunc 執行一局並回傳結果，通常是 Machine.Spin 或包住 SlotRuntime.Spin 的閉包。
type SpinFunc func(bet int) (slot.SpinResult, error)

// Session 單一玩家的錢包與目前下注。
//
// 餘額不足下注時拒絕 spin；spin 成功才扣注並派彩，失敗時餘額不變。
type Session struct {
	ID  string
	GID spec.GID

	mu       sync.Mutex
	betRange spec.BetRange
	step     int
	balance  decimal.Decimal
	bet      int
	spins    int
	totalBet decimal.Decimal
	totalWin decimal.Decimal
}

// SessionState 對外的唯讀快照。
type SessionState struct {
	ID       string          `json:"id"`
	GID      spec.GID        `json:"gid"`
	Balance  decimal.Decimal `json:"balance"`
	Bet      int             `json:"bet"`
	BetRange spec.BetRange   `json:"bet_range"`
	Spins    int             `json:"spins"`
	TotalBet decimal.Decimal `json:"total_bet"`
	TotalWin decimal.Decimal `json:"total_win"`
}

// SessionSpin 一局的結果與結算後狀態。
type SessionSpin struct {
	Result slot.SpinResult `json:"result"`
	State  SessionState    `json:"state"`
}

// NewSession 以設定的初始餘額與預設下注建立錢包。
func NewSession(id string, s *spec.SlotSetting) *Session {
	return &Session{
		ID:       id,
		GID:      s.GameID,
		betRange: s.BetRange,
		step:     s.BetStep,
		balance:  decimal.NewFromInt(s.InitialBalance),
		bet:      s.BetRange.Default,
	}
}

// IncreaseBet 下注加一個 step，不超過上限。
func (ss *Session) IncreaseBet() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.bet = ss.betRange.Clamp(ss.bet + ss.step)
	return ss.bet
}

// DecreaseBet 下注減一個 step，不低於下限。
func (ss *Session) DecreaseBet() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.bet = ss.betRange.Clamp(ss.bet - ss.step)
	return ss.bet
}

// SetBet 直接指定下注，越界回傳 InvalidBetError。
func (ss *Session) SetBet(bet int) error {
	if !ss.betRange.Contains(bet) {
		return errs.InvalidBet(bet, ss.betRange.Min, ss.betRange.Max)
	}
	ss.mu.Lock()
	ss.bet = bet
	ss.mu.Unlock()
	return nil
}

// Spin 以目前下注執行一局。
func (ss *Session) Spin(spin SpinFunc) (SessionSpin, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	bet := decimal.NewFromInt(int64(ss.bet))
	if ss.balance.LessThan(bet) {
		return SessionSpin{}, errs.InsufficientBalance(ss.balance.String(), bet.String())
	}
	res, err := spin(ss.bet)
	if err != nil {
		return SessionSpin{}, err
	}
	win := decimal.NewFromInt(res.Outcome.Total)
	ss.balance = ss.balance.Sub(bet).Add(win)
	ss.totalBet = ss.totalBet.Add(bet)
	ss.totalWin = ss.totalWin.Add(win)
	ss.spins++
	return SessionSpin{Result: res, State: ss.stateLocked()}, nil
}

func (ss *Session) State() SessionState {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.stateLocked()
}

func (ss *Session) stateLocked() SessionState {
	return SessionState{
		ID:       ss.ID,
		GID:      ss.GID,
		Balance:  ss.balance,
		Bet:      ss.bet,
		BetRange: ss.betRange,
		Spins:    ss.spins,
		TotalBet: ss.totalBet,
		TotalWin: ss.totalWin,
	}
}

// SessionStore 以 uuid 管理記憶體內的 Session，不做持久化。
type SessionStore struct {
	engine *Engine
	mu     sync.RWMutex
	byID   map[string]*Session
	limit  int
}

// NewSessionStore limit <= 0 表示不限制數量。
func NewSessionStore(e *Engine, limit int) *SessionStore {
	return &SessionStore{engine: e, byID: make(map[string]*Session), limit: limit}
}

func (st *SessionStore) Create(gid spec.GID) (*Session, error) {
	s, err := st.engine.Setting(gid)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.limit > 0 && len(st.byID) >= st.limit {
		return nil, errs.Warnf("session limit %d reached", st.limit)
	}
	ss := NewSession(uuid.NewString(), s)
	st.byID[ss.ID] = ss
	return ss, nil
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ss, ok := st.byID[id]
	if !ok {
		return nil, errs.Warnf("session %q not found", id)
	}
	return ss, nil
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.byID, id)
	st.mu.Unlock()
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.byID)
}
