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

package v1

import (
	"net/http"

	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/recorder"
	"github.com/zintix-labs/slotengine/server/httperr"
	"github.com/zintix-labs/slotengine/spec"
)

// Stat POST /v1/stat：由外部提供的逐局贏分重算報表，遊戲不需在目錄中。
func (h *Handler) Stat(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeStatRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rec, err := recorder.NewSpinRecorder(req.GameName, 0, req.Bet, 0, spec.DefaultWinTiers())
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	for i, n := 0, req.Rounds(); i < n; i++ {
		out := req.Outcome(i)
		rec.Record(&out)
	}
	h.ok(w, rec.Done())
}
