package handlers

import (
	"net/http"
	"time"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/httpapi/response"
)

type statusPayload struct {
	Message     string `json:"message"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	Uptime      string `json:"uptime"`
}

type versionPayload struct {
	buildinfo.Info
	Environment string `json:"environment"`
}

type StatusHandler struct {
	Config    config.Settings
	StartedAt time.Time
}

func NewStatusHandler(cfg config.Settings, startedAt time.Time) *StatusHandler {
	return &StatusHandler{Config: cfg, StartedAt: startedAt}
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.snapshot())
}

func (h *StatusHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, versionPayload{
		Info:        buildinfo.GetBuildInfo(),
		Environment: h.Config.Environment,
	})
}

func (h *StatusHandler) snapshot() statusPayload {
	now := time.Now()
	return statusPayload{
		Message:     "API is working!",
		Environment: h.Config.Environment,
		Timestamp:   formatTimestamp(now),
		Uptime:      formatAge(now.Sub(h.StartedAt)),
	}
}
