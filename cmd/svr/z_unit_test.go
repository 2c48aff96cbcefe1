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

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svr.yaml")
	body := "addr: \":7000\"\nlog_mode: silence\npool_size: 2\nsession_limit: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	sCfg, closeLog, err := loadConfig([]string{"-config", path, "-pool", "3", "-cors", "https://a.test,https://b.test"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()

	if sCfg.Addr != ":7000" || sCfg.PoolSize != 3 || sCfg.SessionLimit != 10 {
		t.Fatalf("unexpected cfg %+v", sCfg)
	}
	if len(sCfg.AllowedOrigins) != 2 || sCfg.Engine == nil || len(sCfg.Engine.IDs()) != 2 {
		t.Fatalf("unexpected cfg %+v", sCfg)
	}
	if err := sCfg.Valid(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	if _, _, err := loadConfig([]string{"-log", "loud"}); err == nil {
		t.Fatalf("bad log mode should fail")
	}
	if _, _, err := loadConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("missing config should fail")
	}
	if _, _, err := loadConfig([]string{"-games", t.TempDir()}); err != nil {
		t.Fatalf("empty game dir should load demo games only: %v", err)
	}
}
