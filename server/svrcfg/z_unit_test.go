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

package svrcfg

import (
	"testing"
	"time"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/sdk/core"
)

const fileYAML = `
addr: ":9000"
log_mode: prod
pool_size: 200
allowed_origins: ["https://example.com"]
spin_timeout: 2s
sim:
  max_rounds: 5000
`

func TestApplyAndValid(t *testing.T) {
	f, err := ParseFile([]byte(fileYAML))
	if err != nil {
		t.Fatal(err)
	}
	e, err := slotengine.New(core.Default(), demo_configs.FS)
	if err != nil {
		t.Fatal(err)
	}
	sc := &SvrCfg{Engine: e}
	if err := sc.Apply(f); err != nil {
		t.Fatal(err)
	}
	if err := sc.Valid(); err != nil {
		t.Fatal(err)
	}
	if sc.Addr != ":9000" || sc.PoolSize != 64 || sc.SpinTimeout != 2*time.Second {
		t.Fatalf("unexpected cfg %+v", sc)
	}
	if sc.Sim.MaxRounds != 5000 || sc.Sim.MaxWorkers != 4 || sc.SessionLimit != DefaultSessionLimit {
		t.Fatalf("defaults not applied %+v", sc)
	}
	if sc.Log == nil {
		t.Fatalf("logger should default to silent")
	}
}

func TestParseFileStrict(t *testing.T) {
	if _, err := ParseFile([]byte("addr: x\nport: 1\n")); err == nil {
		t.Fatalf("unknown field should fail")
	}
	f, _ := ParseFile([]byte("spin_timeout: soon\n"))
	if err := new(SvrCfg).Apply(f); err == nil {
		t.Fatalf("bad duration should fail")
	}
}

func TestValidRequiresEngine(t *testing.T) {
	if err := new(SvrCfg).Valid(); err == nil {
		t.Fatalf("missing engine should fail")
	}
}
