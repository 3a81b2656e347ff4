package response

import (
	"encoding/json"
	"net/http"
	"strings"

	"cicd-demo/backend/internal/httpapi/contextkeys"
	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"
)

type errorBody struct {
	Error      apiError `json:"error"`
	RequestID  string   `json:"request_id,omitempty"`
	StatusCode int      `json:"status_code"`
}

type apiError struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes payload as JSON, or as YAML when the request asks for
// ?format=yaml.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	if wantsYAML(r) {
		writeYAML(w, r, status, payload)
		return
	}
	writeJSON(w, status, payload)
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	ErrorWithDetails(w, r, status, message, nil)
}

func ErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, message string, details interface{}) {
	JSON(w, r, status, errorBody{
		Error: apiError{
			Message: message,
			Details: details,
		},
		RequestID:  RequestID(r),
		StatusCode: status,
	})
}

func HTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func RequestID(r *http.Request) string {
	if v := r.Context().Value(contextkeys.RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func wantsYAML(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "yaml", "yml":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeYAML(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	out, err := yaml.Marshal(payload)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("yaml.encode_failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:      apiError{Message: "failed to encode yaml"},
			RequestID:  RequestID(r),
			StatusCode: http.StatusInternalServerError,
		})
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
