package positionparser

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gzambran/poligrade/lib/serviceutil"
)

type commitRequest struct {
	PoliticianID string `json:"politician_id"`
	Positions    []struct {
		Stance   string `json:"stance"`
		Category string `json:"category"`
	} `json:"positions"`
}

type commitResponse struct {
	Added   int               `json:"added"`
	Written map[string]string `json:"written"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

// RegisterCommit mounts the commit endpoint: the already-curated
// selection arrives as stance/category pairs and is merged into the
// destination record through the facade.
func RegisterCommit(mux *http.ServeMux, facade RecordFacade, accessToken string) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
			return
		}

		var req commitRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
			return
		}
		if req.PoliticianID == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "politician_id is required"})
			return
		}

		result := &Result{}
		selection := NewSelection(len(req.Positions))
		for i, p := range req.Positions {
			if p.Stance == "" {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "positions may not have an empty stance"})
				return
			}
			category, err := ParseCategory(p.Category)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
				return
			}
			result.Positions = append(result.Positions, Position{Stance: p.Stance})
			selection.SetCategory(i, category)
		}

		outcome, err := Merge(r.Context(), facade, req.PoliticianID, result, selection)
		switch {
		case errors.Is(err, ErrNotReady):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		case errors.Is(err, ErrRecordNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Politician not found"})
			return
		case err != nil:
			slog.ErrorContext(r.Context(), "commit failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, commitResponse{
			Added:   outcome.Added,
			Written: outcome.Written,
		})
	})

	mux.Handle("/api/admin/position-parser/commit",
		serviceutil.VerifyAccessToken(accessToken, handler))
}
