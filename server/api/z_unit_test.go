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

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/sdk/slot"
	v1 "github.com/zintix-labs/slotengine/server/api/v1"
	"github.com/zintix-labs/slotengine/server/netsvr"
	"github.com/zintix-labs/slotengine/server/svrcfg"
	"github.com/zintix-labs/slotengine/stats"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	e, err := slotengine.New(core.Default(), demo_configs.FS)
	if err != nil {
		t.Fatal(err)
	}
	sCfg := &svrcfg.SvrCfg{Engine: e, PoolSize: 1, SessionLimit: 2}
	if err := sCfg.Valid(); err != nil {
		t.Fatal(err)
	}
	rt, err := e.BuildRuntime(sCfg.PoolSize)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(rt.Close)
	svr := netsvr.NewChiServer(":0", 0)
	if err := RegisterRoutes(svr, sCfg, rt, slotengine.NewSessionStore(e, sCfg.SessionLimit)); err != nil {
		t.Fatal(err)
	}
	return svr.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := dto.JSON.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestGamesAndHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}

	rec = do(t, h, http.MethodGet, "/v1/games", "")
	var list dto.GameList
	decode(t, rec, &list)
	if len(list.Games) != 2 || list.Games[0].GID != 1 {
		t.Fatalf("unexpected games %+v", list.Games)
	}

	if rec = do(t, h, http.MethodGet, "/v1/games/99", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown gid got %d", rec.Code)
	}
	if rec = do(t, h, http.MethodGet, "/v1/games/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad gid got %d", rec.Code)
	}
}

func TestSpinAndReplay(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/games/1/spin?bet=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("spin got %d: %s", rec.Code, rec.Body.String())
	}
	var first dto.SpinResult
	decode(t, rec, &first)
	if first.Bet != 10 || len(first.Grid) != 5 || first.State.StartB64U == "" {
		t.Fatalf("unexpected spin %+v", first)
	}

	body := `{"bet":10,"start_b64u":"` + first.State.StartB64U + `"}`
	rec = do(t, h, http.MethodPost, "/v1/games/1/spin", body)
	var again dto.SpinResult
	decode(t, rec, &again)
	if again.Win != first.Win || again.Grid.String() != first.Grid.String() || again.State.AfterB64U != first.State.AfterB64U {
		t.Fatalf("replay differs:\n%+v\n%+v", first, again)
	}

	if rec = do(t, h, http.MethodGet, "/v1/games/1/spin?bet=1000", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid bet got %d", rec.Code)
	}
	if rec = do(t, h, http.MethodPost, "/v1/games/1/spin", `{"bet":10,"start_b64u":"@@"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad state got %d", rec.Code)
	}
}

func TestEvaluate(t *testing.T) {
	h := newTestServer(t)

	row := `["cherry","cherry","cherry"]`
	grid := "[" + strings.Repeat(row+",", 4) + row + "]"
	rec := do(t, h, http.MethodPost, "/v1/games/1/evaluate", `{"bet":1,"grid":`+grid+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.EvaluateResult
	decode(t, rec, &res)
	// 25 條線都是 5 連 cherry：10 × 25 × 1
	if res.Win != 25*250 || len(res.Lines) != 25 || res.Tier != slot.TierMega || res.Bonus {
		t.Fatalf("unexpected evaluate %+v", res)
	}

	rec = do(t, h, http.MethodPost, "/v1/games/1/evaluate", `{"bet":1,"grid":[["kiwi","cherry","cherry"]]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad grid got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSimEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/v1/games/2/sim?bet=1&rounds=2000&workers=2&seed=7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sim got %d: %s", rec.Code, rec.Body.String())
	}
	var a, b v1.SimResponse
	decode(t, rec, &a)
	if a.Seed != 7 || a.Stats == nil || a.Stats.Summary.Rounds != 2000 || a.Estimator != nil {
		t.Fatalf("unexpected sim %+v", a)
	}
	decode(t, do(t, h, http.MethodPost, "/v1/games/2/sim", `{"bet":1,"rounds":2000,"workers":2,"seed":7}`), &b)
	if a.Stats.Summary.TotalWin != b.Stats.Summary.TotalWin {
		t.Fatalf("same seed should give same total win: %d vs %d", a.Stats.Summary.TotalWin, b.Stats.Summary.TotalWin)
	}

	rec = do(t, h, http.MethodPost, "/v1/games/2/sim", `{"bet":1,"rounds":200,"players":20,"init_bets":50}`)
	var p v1.SimResponse
	decode(t, rec, &p)
	if p.Estimator == nil || p.Estimator.Players != 20 {
		t.Fatalf("player sim missing estimator: %s", rec.Body.String())
	}

	if rec = do(t, h, http.MethodGet, "/v1/games/2/sim?bet=1&rounds=0", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("zero rounds got %d", rec.Code)
	}
}

func TestSimByConfig(t *testing.T) {
	h := newTestServer(t)
	cfg := `{"game_name":"tiny","game_id":9,"reel_count":3,"row_count":1,
		"symbols":[{"id":"a","value":1,"weight":1},{"id":"b","value":2,"weight":1}],
		"paylines":[[0,0,0]],"bet_range":{"min":1,"max":5,"default":1}}`
	rec := do(t, h, http.MethodPost, "/v1/sim/config", `{"bet":1,"rounds":500,"seed":3,"cfg":`+cfg+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sim by config got %d: %s", rec.Code, rec.Body.String())
	}
	var res v1.SimResponse
	decode(t, rec, &res)
	if res.Stats.Summary.GameName != "tiny" || res.Stats.Summary.Rounds != 500 {
		t.Fatalf("unexpected summary %+v", res.Stats.Summary)
	}

	rec = do(t, h, http.MethodPost, "/v1/sim/config", `{"bet":1,"rounds":10,"cfg":{"game_name":"x"}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid cfg got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStat(t *testing.T) {
	h := newTestServer(t)
	body := `{"game_name":"ext","bet":10,"line_wins":[0,20,0,500],"scatter_wins":[0,0,40,0],"triggers":[false,false,true,false]}`
	rec := do(t, h, http.MethodPost, "/v1/stat", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("stat got %d: %s", rec.Code, rec.Body.String())
	}
	var st stats.StatReport
	decode(t, rec, &st)
	sum := st.Summary
	if sum.GameName != "ext" || sum.Rounds != 4 || sum.TotalWin != 560 || sum.Trigger != 1 || sum.MegaWins != 1 {
		t.Fatalf("unexpected stat %s", rec.Body.String())
	}
}

func TestSessionFlow(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/sessions", `{"gid":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create got %d: %s", rec.Code, rec.Body.String())
	}
	var st slotengine.SessionState
	decode(t, rec, &st)
	if st.ID == "" || st.Bet != 10 || st.Balance.IntPart() != 1000 {
		t.Fatalf("unexpected session %+v", st)
	}
	base := "/v1/sessions/" + st.ID

	decode(t, do(t, h, http.MethodPost, base+"/bet/up", ""), &st)
	if st.Bet != 11 {
		t.Fatalf("bet up got %d", st.Bet)
	}
	decode(t, do(t, h, http.MethodPost, base+"/bet/down", ""), &st)
	if st.Bet != 10 {
		t.Fatalf("bet down got %d", st.Bet)
	}
	if rec = do(t, h, http.MethodPost, base+"/bet/500", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range bet got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, base+"/spin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("session spin got %d: %s", rec.Code, rec.Body.String())
	}
	var sp v1.SessionSpinResponse
	decode(t, rec, &sp)
	want := 1000 - 10 + sp.Result.Win
	if sp.Session.Spins != 1 || sp.Session.Balance.IntPart() != want {
		t.Fatalf("balance got %s want %d", sp.Session.Balance, want)
	}

	if rec = do(t, h, http.MethodPost, "/v1/sessions", `{"gid":42}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown game got %d", rec.Code)
	}
	if rec = do(t, h, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete got %d", rec.Code)
	}
	if rec = do(t, h, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted session got %d", rec.Code)
	}
}

func TestSessionLimit(t *testing.T) {
	h := newTestServer(t)
	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodPost, "/v1/sessions", `{"gid":2}`); rec.Code != http.StatusCreated {
			t.Fatalf("create %d got %d", i, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodPost, "/v1/sessions", `{"gid":2}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("limit should refuse, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/v1/games/1/spin?bet=1", "")
	var m []slotengine.MachinePoolMetrics
	decode(t, do(t, h, http.MethodGet, "/v1/metrics", ""), &m)
	if len(m) != 2 || m[0].Spins != 1 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}
