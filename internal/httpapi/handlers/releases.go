package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"cicd-demo/backend/internal/database"
	"cicd-demo/backend/internal/httpapi/response"
	"cicd-demo/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type releasesPayload struct {
	Releases []models.Release `json:"releases"`
	Count    int              `json:"count"`
}

type ReleaseHandler struct {
	DB *gorm.DB
}

func NewReleaseHandler(db *gorm.DB) *ReleaseHandler {
	return &ReleaseHandler{DB: db}
}

func (h *ReleaseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "release ledger is disabled")
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.ErrorWithDetails(w, r, http.StatusBadRequest, "invalid limit", map[string]interface{}{
			"min": 1,
			"max": database.MaxReleaseLimit,
		})
		return
	}

	releases, err := database.RecentReleases(r.Context(), h.DB, limit)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("releases.query_failed")
		response.Error(w, r, http.StatusInternalServerError, "database error")
		return
	}

	response.JSON(w, r, http.StatusOK, releasesPayload{Releases: releases, Count: len(releases)})
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return database.DefaultReleaseLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		return 0, strconv.ErrRange
	}
	return limit, nil
}
