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

// Package slotengine 是拉霸結果引擎的組裝入口。
//
// Engine 把兩個地基組在一起：
//  1. catalog：從 fs.FS 載入的遊戲目錄（唯讀設定）。
//  2. core.PRNGFactory：以 seed 建立可重現、可快照的 RNG。
//
// 由 Engine 建出 Machine（單台 Spin / Evaluate）、Simulator（大量模擬）與 SlotRuntime（服務用機台池）。
// Engine 不綁定檔案路徑；設定來源一律以 fs.FS 注入，可用 go:embed 或 os.DirFS。
package slotengine

import (
	"io/fs"

	"github.com/zintix-labs/slotengine/catalog"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/spec"
)

type Engine struct {
	cat   *catalog.Catalog
	cf    core.PRNGFactory
	parts map[spec.GID]*parts
}

// New 載入所有設定並預先建好每款遊戲的唯讀元件；任何一款失敗即回傳錯誤。
func New(cf core.PRNGFactory, cfgs ...fs.FS) (*Engine, error) {
	if cf == nil {
		return nil, errs.Config("engine: prng factory required")
	}
	cat, err := catalog.Load(cfgs...)
	if err != nil {
		return nil, err
	}
	e := &Engine{cat: cat, cf: cf, parts: make(map[spec.GID]*parts)}
	for _, id := range cat.IDs() {
		s, _ := cat.Setting(id)
		p, err := newParts(s)
		if err != nil {
			return nil, errs.Wrapf(err, "engine: build game %d", id)
		}
		e.parts[id] = p
	}
	return e, nil
}

func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

func (e *Engine) IDs() []spec.GID { return e.cat.IDs() }

func (e *Engine) Summaries() []catalog.Summary { return e.cat.Summaries() }

// Setting 回傳遊戲設定（唯讀）。
func (e *Engine) Setting(id spec.GID) (*spec.SlotSetting, error) {
	return e.cat.Setting(id)
}

func (e *Engine) gameParts(id spec.GID) (*parts, error) {
	p, ok := e.parts[id]
	if !ok {
		return nil, errs.Warnf("game id %d not found", id)
	}
	return p, nil
}

// NewMachine 以 crypto/rand 產生 seed 建立機台。seed 記錄於 Machine.Seed。
func (e *Engine) NewMachine(id spec.GID) (*Machine, error) {
	return e.NewMachineWithSeed(id, core.CryptoSeed())
}

// NewMachineWithSeed 相同設定與 seed 得到相同的盤面序列。
func (e *Engine) NewMachineWithSeed(id spec.GID, seed int64) (*Machine, error) {
	p, err := e.gameParts(id)
	if err != nil {
		return nil, err
	}
	return p.newMachine(e.cf.New(seed), seed), nil
}

func (e *Engine) NewSimulator(id spec.GID) (*Simulator, error) {
	return e.NewSimulatorWithSeed(id, core.CryptoSeed())
}

func (e *Engine) NewSimulatorWithSeed(id spec.GID, seed int64) (*Simulator, error) {
	p, err := e.gameParts(id)
	if err != nil {
		return nil, err
	}
	return newSimulator(p, e.cf, seed), nil
}

// NewSimulatorBySetting 以目錄外的設定建立模擬器，用於試算新參數。
func (e *Engine) NewSimulatorBySetting(s *spec.SlotSetting, seed int64) (*Simulator, error) {
	p, err := newParts(s)
	if err != nil {
		return nil, err
	}
	return newSimulator(p, e.cf, seed), nil
}

// BuildRuntime 為每款遊戲建立 poolSize 台機台的機台池。
func (e *Engine) BuildRuntime(poolSize int) (*SlotRuntime, error) {
	ids := e.cat.IDs()
	rt := &SlotRuntime{
		engine:   e,
		pools:    make(map[spec.GID]*MachinePool, len(ids)),
		ids:      ids,
		done:     make(chan struct{}),
		poolSize: max(1, poolSize),
	}
	rt.reason.Store("")
	for _, id := range ids {
		mp, err := newMachinePool(rt.poolSize, e.parts[id], e.cf, core.CryptoSeed())
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.pools[id] = mp
	}
	return rt, nil
}
