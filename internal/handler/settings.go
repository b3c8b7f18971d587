package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"overspeed/internal/logger"
	"overspeed/internal/model"
	"overspeed/internal/service"
)

// SpeedLimitHandler handles POST /api/settings/speed-limit. The limit is read from a JSON body
// {"speedLimit": N} or from the speedLimit form value.
func SpeedLimitHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		limit, err := readSpeedLimit(r)
		if err != nil {
			writeError(w, "Invalid speed limit", http.StatusBadRequest)
			return
		}

		if err := manager.SetSpeedLimit(limit); err != nil {
			if errors.Is(err, model.ErrInvalidSpeedLimit) {
				writeError(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Error("Failed to set speed limit: %v", err)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, manager.Snapshot())
	}
}

func readSpeedLimit(r *http.Request) (int, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body model.Settings
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return 0, err
		}
		return body.SpeedLimit, nil
	}
	return strconv.Atoi(r.FormValue("speedLimit"))
}
