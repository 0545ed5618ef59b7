package middleware

import (
	"encoding/json"
	"net/http"
)

// errorJSON writes the shared error envelope. Handlers have their own
// respond helpers; middleware keeps this local copy to avoid an import cycle.
func errorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
