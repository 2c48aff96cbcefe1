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

package symbol

import (
	"errors"
	"testing"

	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/spec"
)

func fruits() []spec.SymbolDef {
	return []spec.SymbolDef{
		{ID: "cherry", Value: 10, Weight: 25},
		{ID: "lemon", Value: 15, Weight: 20},
		{ID: "wild", Value: 500, Weight: 3},
	}
}

func TestLookup(t *testing.T) {
	c, err := NewCatalog(fruits())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	s, err := c.Lookup("lemon")
	if err != nil || s.Value != 15 || s.Weight != 20 {
		t.Fatalf("lookup lemon: %+v %v", s, err)
	}
	if _, err := c.Lookup("kiwi"); !errors.Is(err, errs.ErrUnknownSymbol) {
		t.Fatalf("want ErrUnknownSymbol, got %v", err)
	}
	if !c.Has("wild") || c.Has("kiwi") || c.Len() != 3 {
		t.Fatalf("has/len wrong")
	}
}

func TestWeightsKeepOrder(t *testing.T) {
	c, _ := NewCatalog(fruits())
	w := c.Weights()
	ids := c.IDs()
	want := []string{"cherry", "lemon", "wild"}
	for i := range want {
		if w[i].ID != want[i] || ids[i] != want[i] {
			t.Fatalf("order %d: %v / %v", i, w, ids)
		}
	}
	w[0].Weight = 999
	if c.Weights()[0].Weight != 25 {
		t.Fatalf("Weights must return a copy")
	}
}

func TestNewCatalogRejects(t *testing.T) {
	dup := append(fruits(), spec.SymbolDef{ID: "lemon", Value: 1, Weight: 1})
	if _, err := NewCatalog(dup); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("duplicate should fail, got %v", err)
	}
	if _, err := NewCatalog([]spec.SymbolDef{{ID: "x", Value: 0, Weight: 1}}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("zero value should fail, got %v", err)
	}
	if _, err := NewCatalog(nil); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("empty should fail")
	}
}
