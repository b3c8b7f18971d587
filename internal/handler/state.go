package handler

import (
	"net/http"

	"overspeed/internal/service"
)

// StateHandler serves the current session state as JSON.
func StateHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, manager.Snapshot())
	}
}
