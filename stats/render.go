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

package stats

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Text渲染：耗時 + 表格
type TextStatReportRender struct {
	Elapsed time.Duration
}

func (tr *TextStatReportRender) Write(w io.Writer, r *StatReport) error {
	_, err := fmt.Fprint(w, formatDuration(tr.Elapsed, r.Summary.Rounds), r.Table())
	return err
}

// Json渲染
type JsonStatReportRender struct{}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLStatReportRender struct{}

func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	return forceReadableList(w, r)
}

type EstimatorRender interface {
	Write(w io.Writer, e *EstimatorPlayers) error
}

type TextEstimatorRender struct{}

func (tr *TextEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	_, err := io.WriteString(w, e.Table())
	return err
}

// Json渲染
type JsonEstimatorRender struct{}

func (jr *JsonEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return json.NewEncoder(w).Encode(e)
}

// YAML渲染
type YAMLEstimatorRender struct{}

func (yr *YAMLEstimatorRender) Write(w io.Writer, e *EstimatorPlayers) error {
	return forceReadableList(w, e)
}

// RenderByName 依名稱（text / json / yaml）取得報表渲染器。
func RenderByName(name string, elapsed time.Duration) (StatReportRender, EstimatorRender, bool) {
	switch name {
	case "", "text":
		return &TextStatReportRender{Elapsed: elapsed}, &TextEstimatorRender{}, true
	case "json":
		return &JsonStatReportRender{}, &JsonEstimatorRender{}, true
	case "yaml", "yml":
		return &YAMLStatReportRender{}, &YAMLEstimatorRender{}, true
	default:
		return nil, nil, false
	}
}

// forceReadableList 外層陣列維持 block 展開，只有最內層一維陣列輸出成 flow style：[a, b, c]
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChildSeq = true
			}
			styleReadableSequences(c)
		}
		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
	}
}
