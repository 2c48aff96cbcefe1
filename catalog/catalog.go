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

// Package catalog 從一或多個 fs.FS 載入遊戲設定，建立唯讀的遊戲目錄。
//
// 設定來源必須是平坦目錄（不得有子目錄），只索引 .yaml / .yml / .json。
// 載入是全有或全無：任何一個檔案解析失敗，整個 Load 失敗。
package catalog

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/spec"
)

// Entry 目錄中的一款遊戲。
type Entry struct {
	GID        spec.GID
	Name       string
	ConfigName string
	Setting    *spec.SlotSetting
}

// Summary 對外列舉用的遊戲摘要。
type Summary struct {
	GID       spec.GID      `json:"gid"`
	Name      string        `json:"name"`
	Reels     int           `json:"reels"`
	Rows      int           `json:"rows"`
	Paylines  int           `json:"paylines"`
	Symbols   []string      `json:"symbols"`
	Wild      string        `json:"wild,omitempty"`
	Scatter   string        `json:"scatter,omitempty"`
	BetRange  spec.BetRange `json:"bet_range"`
	BetStep   int           `json:"bet_step"`
	StartBank int64         `json:"initial_balance"`
}

type Catalog struct {
	byID   map[spec.GID]Entry
	byName map[string]spec.GID
	ids    []spec.GID
}

// Load 掃描所有來源並解析設定。檔名跨來源重複、GID 或遊戲名稱重複都視為錯誤。
func Load(srcs ...fs.FS) (*Catalog, error) {
	if len(srcs) == 0 {
		return nil, errs.Config("catalog: no config source")
	}
	c := &Catalog{
		byID:   map[spec.GID]Entry{},
		byName: map[string]spec.GID{},
	}
	seenFile := map[string]int{}
	for i, src := range srcs {
		if src == nil {
			return nil, errs.Config("catalog: fs[%d] is nil", i)
		}
		err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.Config("catalog: config source must be flat, found %q", path)
			}
			if strings.HasPrefix(path, ".") || !spec.IsConfigFile(path) {
				return nil
			}
			if prev, dup := seenFile[path]; dup {
				return errs.Config("catalog: duplicate config %q in fs[%d] and fs[%d]", path, prev, i)
			}
			seenFile[path] = i

			raw, err := fs.ReadFile(src, path)
			if err != nil {
				return errs.Wrapf(err, "catalog: read %s", path)
			}
			s, err := spec.GetSlotSettingByName(path, raw)
			if err != nil {
				return errs.Wrapf(err, "catalog: parse %s", path)
			}
			return c.add(Entry{GID: s.GameID, Name: s.GameName, ConfigName: path, Setting: s})
		})
		if err != nil {
			return nil, err
		}
	}
	if len(c.ids) == 0 {
		return nil, errs.Config("catalog: no config files found")
	}
	slices.Sort(c.ids)
	return c, nil
}

func (c *Catalog) add(e Entry) error {
	key := nameKey(e.Name)
	if prev, dup := c.byID[e.GID]; dup {
		return errs.Config("catalog: duplicate game id %d (%s and %s)", e.GID, prev.ConfigName, e.ConfigName)
	}
	if prev, dup := c.byName[key]; dup {
		return errs.Config("catalog: duplicate game name %q (gid %d and %d)", key, prev, e.GID)
	}
	c.byID[e.GID] = e
	c.byName[key] = e.GID
	c.ids = append(c.ids, e.GID)
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Catalog) GetByID(id spec.GID) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// GetByName 不分大小寫。
func (c *Catalog) GetByName(name string) (Entry, bool) {
	id, ok := c.byName[nameKey(name)]
	if !ok {
		return Entry{}, false
	}
	return c.GetByID(id)
}

// Setting 回傳遊戲設定，不存在時回傳 Warn 等級錯誤。
func (c *Catalog) Setting(id spec.GID) (*spec.SlotSetting, error) {
	e, ok := c.byID[id]
	if !ok {
		return nil, errs.Warnf("game id %d not found", id)
	}
	return e.Setting, nil
}

// IDs 依 GID 遞增回傳。
func (c *Catalog) IDs() []spec.GID {
	return slices.Clone(c.ids)
}

func (c *Catalog) Summaries() []Summary {
	out := make([]Summary, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, Summarize(c.byID[id].Setting))
	}
	return out
}

// Summarize 由設定產生摘要。
func Summarize(s *spec.SlotSetting) Summary {
	syms := make([]string, len(s.Symbols))
	for i, d := range s.Symbols {
		syms[i] = d.ID
	}
	return Summary{
		GID:       s.GameID,
		Name:      s.GameName,
		Reels:     s.ReelCount,
		Rows:      s.RowCount,
		Paylines:  len(s.Paylines),
		Symbols:   syms,
		Wild:      s.Wild,
		Scatter:   s.Scatter,
		BetRange:  s.BetRange,
		BetStep:   s.BetStep,
		StartBank: s.InitialBalance,
	}
}
