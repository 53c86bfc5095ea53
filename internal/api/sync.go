package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

const defaultSyncDays = 20

// handleSync triggers a manual import run. POST with {"days": n} runs a
// full backfill; GET with ?hours= runs the recent-jobs variant.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		jsonError(w, "sync is not configured", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body struct {
			Days int `json:"days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Days <= 0 {
			body.Days = defaultSyncDays
		}

		summary, err := h.syncer.SyncAllCountries(r.Context(), body.Days)
		if err != nil {
			log.Printf("[api] sync error: %v", err)
			jsonError(w, "Sync failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)

	case http.MethodGet:
		hours := 24
		if v, err := strconv.Atoi(r.URL.Query().Get("hours")); err == nil && v > 0 {
			hours = v
		}

		summary, err := h.syncer.SyncRecentJobs(r.Context(), hours)
		if err != nil {
			log.Printf("[api] recent sync error: %v", err)
			jsonError(w, "Sync failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)

	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCronSync is the endpoint an external cron hits daily. It is
// guarded by a bearer secret rather than user auth.
func (h *Handler) handleCronSync(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		jsonError(w, "sync is not configured", http.StatusServiceUnavailable)
		return
	}
	if h.cronSecret == "" || r.Header.Get("Authorization") != "Bearer "+h.cronSecret {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	log.Println("[api] daily sync triggered by cron")

	summary, err := h.syncer.SyncRecentJobs(r.Context(), 24)
	if err != nil {
		log.Printf("[api] daily sync error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"error":     "Daily sync failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   summary.Success,
		"results":   summary.Results,
		"summary":   summary.Summary,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
