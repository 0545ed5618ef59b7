package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const serverErrorMessage = "Palvelinvirhe. Yritä myöhemmin uudelleen."

// respond writes a JSON body with the given status.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes the shared error envelope {success:false, message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
