package handlers

import (
	"net/http"
	"time"
)

// Welcome answers the root route with a status banner.
func Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to the weCare server app",
		"timestamp": time.Now(),
	})
}

// Healthz is the liveness probe.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
