package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"time"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/database"
	"cicd-demo/backend/internal/httpapi/response"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

//go:embed templates/home.html
var homeHTML string

var homeTemplate = template.Must(template.New("home").Parse(homeHTML))

type endpoint struct {
	Path        string
	Description string
}

// publicEndpoints is the list advertised on the homepage.
var publicEndpoints = []endpoint{
	{Path: "/", Description: "Homepage"},
	{Path: "/health", Description: "Health Check"},
	{Path: "/api/status", Description: "API Status"},
	{Path: "/api/version", Description: "Build Version"},
}

type homeView struct {
	CurrentTime string
	Environment string
	Version     string
	Endpoints   []endpoint
}

type healthPayload struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type SystemHandler struct {
	DB     *gorm.DB
	Config config.Settings
}

func NewSystemHandler(db *gorm.DB, cfg config.Settings) *SystemHandler {
	return &SystemHandler{DB: db, Config: cfg}
}

func (h *SystemHandler) Home(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := homeTemplate.Execute(&buf, homeView{
		CurrentTime: time.Now().Format(homeTimeLayout),
		Environment: h.Config.Environment,
		Version:     buildinfo.Version,
		Endpoints:   publicEndpoints,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("home.render_failed")
		response.Error(w, r, http.StatusInternalServerError, "failed to render homepage")
		return
	}
	response.HTML(w, http.StatusOK, buf.Bytes())
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, healthPayload{
		Status:    "healthy",
		Timestamp: formatTimestamp(time.Now()),
		Version:   buildinfo.Version,
	})
}

// Ready differs from Health in that it checks the release ledger. A disabled
// ledger does not make the service unready.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ready", "ledger": "disabled"})
		return
	}

	if err := database.Ping(r.Context(), h.DB); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("ready.ledger_unreachable")
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"ledger": "unreachable",
		})
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ready", "ledger": "ok"})
}
