package politicians

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gzambran/poligrade/lib/serviceutil"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Politician not found"})
	case errors.Is(err, ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}

// Register mounts the public and admin REST surfaces. Admin routes sit
// behind the access-token gate.
func (s Service) Register(mux *http.ServeMux, accessToken string) {
	mux.HandleFunc("GET /api/politicians", s.handlePublicList)
	mux.HandleFunc("GET /api/politicians/{slug}", s.handlePublicProfile)

	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/politicians", s.handleList)
	admin.HandleFunc("POST /api/admin/politicians", s.handleCreate)
	admin.HandleFunc("GET /api/admin/politicians/{id}", s.handleGet)
	admin.HandleFunc("PUT /api/admin/politicians/{id}", s.handleUpdate)
	admin.HandleFunc("DELETE /api/admin/politicians/{id}", s.handleDelete)
	mux.Handle("/api/admin/politicians", serviceutil.VerifyAccessToken(accessToken, admin))
	mux.Handle("/api/admin/politicians/", serviceutil.VerifyAccessToken(accessToken, admin))
}

func (s Service) handlePublicList(w http.ResponseWriter, r *http.Request) {
	out, err := s.PublicList(r.Context(), r.URL.Query().Get("grade"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []PublicSummary{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s Service) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	politician, err := s.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, politician)
}

func (s Service) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	out, err := s.List(r.Context(), Filters{
		Name:   query.Get("name"),
		State:  query.Get("state"),
		Office: query.Get("office"),
		Status: query.Get("status"),
		Grade:  query.Get("grade"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if out == nil {
		out = []Politician{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form CreateForm
	err := json.NewDecoder(r.Body).Decode(&form)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	politician, err := s.Create(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, politician)
}

func (s Service) handleGet(w http.ResponseWriter, r *http.Request) {
	politician, err := s.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, politician)
}

func (s Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	politician, err := s.Update(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, politician)
}

func (s Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
