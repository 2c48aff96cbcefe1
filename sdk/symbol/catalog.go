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

// Package symbol 提供唯讀的圖標目錄：id 對應賠付值與抽取權重。
package symbol

import (
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/spec"
)

// Symbol 單一圖標，建立後不可變。
type Symbol struct {
	ID     string
	Value  int
	Weight int
}

// Weight 抽樣用的 (id, weight) 對。
type Weight struct {
	ID     string
	Weight int
}

// Catalog 圖標目錄。建立後唯讀，可在 goroutine 間共用。
type Catalog struct {
	order []Symbol
	byID  map[string]int
}

// NewCatalog 依設定順序建立目錄。id 重複、值或權重非正數回傳 ConfigError。
func NewCatalog(defs []spec.SymbolDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errs.Config("symbol catalog: no symbols")
	}
	c := &Catalog{
		order: make([]Symbol, 0, len(defs)),
		byID:  make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if _, dup := c.byID[d.ID]; dup {
			return nil, errs.Config("symbol catalog: duplicated id %q", d.ID)
		}
		if d.Value < 1 || d.Weight < 1 {
			return nil, errs.Config("symbol catalog: %q needs positive value and weight", d.ID)
		}
		c.byID[d.ID] = len(c.order)
		c.order = append(c.order, Symbol{ID: d.ID, Value: d.Value, Weight: d.Weight})
	}
	return c, nil
}

// Lookup 回傳 id 對應的圖標，不存在時回傳 UnknownSymbolError。
func (c *Catalog) Lookup(id string) (Symbol, error) {
	i, ok := c.byID[id]
	if !ok {
		return Symbol{}, errs.UnknownSymbol(id)
	}
	return c.order[i], nil
}

// Has 回傳 id 是否已註冊。
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Weights 依設定順序回傳 (id, weight)。回傳新切片，呼叫端可自由修改。
func (c *Catalog) Weights() []Weight {
	out := make([]Weight, len(c.order))
	for i, s := range c.order {
		out[i] = Weight{ID: s.ID, Weight: s.Weight}
	}
	return out
}

// IDs 依設定順序回傳所有 id。
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	for i, s := range c.order {
		out[i] = s.ID
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
