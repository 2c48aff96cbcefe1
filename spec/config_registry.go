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

package spec

import (
	"bytes"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/slotengine/errs"
)

// strictJSON 拒絕未知欄位，與 YAML 的 KnownFields(true) 行為一致。
var strictJSON = jsoniter.Config{
	EscapeHTML:            true,
	SortMapKeys:           true,
	DisallowUnknownFields: true,
}.Froze()

// GetSlotSettingByYAML 解析 YAML 設定（拼錯欄位即報錯），初始化並檢查後回傳。
func GetSlotSettingByYAML(data []byte) (*SlotSetting, error) {
	s := &SlotSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, errs.Config("failed to unmarshal yaml: %v", err)
	}
	if err := s.Init(); err != nil {
		return nil, errs.Wrap(err, "slot setting initialized err")
	}
	return s, nil
}

// GetSlotSettingByJSON 同 GetSlotSettingByYAML，輸入為 JSON。
func GetSlotSettingByJSON(data []byte) (*SlotSetting, error) {
	s := &SlotSetting{}
	if err := strictJSON.Unmarshal(data, s); err != nil {
		return nil, errs.Config("failed to unmarshal json: %v", err)
	}
	if err := s.Init(); err != nil {
		return nil, errs.Wrap(err, "slot setting initialized err")
	}
	return s, nil
}

// GetSlotSettingByName 依副檔名（.yaml / .yml / .json）選擇解析器。
func GetSlotSettingByName(name string, data []byte) (*SlotSetting, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetSlotSettingByYAML(data)
	case ".json":
		return GetSlotSettingByJSON(data)
	default:
		return nil, errs.Config("unsupported config extension: %s", name)
	}
}

// IsConfigFile 回傳檔名是否為可載入的設定檔。
func IsConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
