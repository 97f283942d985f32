package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// envelope mirrors the flash-message categories users already know:
// success, info, warning, danger.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, code int, status, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data})
}

func respondOK(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, "success", message, data)
}

func respondDanger(w http.ResponseWriter, code int, message string) {
	respond(w, code, "danger", message, nil)
}

// respondNotFound names the safe fallback view, matching the redirect
// behavior of the original UI.
func respondNotFound(w http.ResponseWriter, message string) {
	respond(w, http.StatusNotFound, "danger", message+" Returning to dashboard.", nil)
}

func decodeJSON(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(target)
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}
