package management

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/chrissnell/watchface/internal/interfaces"
	"github.com/chrissnell/watchface/internal/log"
)

// Handlers contains the HTTP handlers for the management API
type Handlers struct {
	controller *Controller
	started    time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		started:    time.Now(),
	}
}

func (h *Handlers) send(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := h.controller.formatter.WriteStatus(w, r, status, data); err != nil {
		h.controller.logger.Errorf("failed to write response for %s: %v", r.URL.Path, err)
	}
}

// sendError sends an error response
func (h *Handlers) sendError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	errorResponse := map[string]interface{}{
		"error":     message,
		"status":    statusCode,
		"timestamp": time.Now().Unix(),
	}

	if err != nil {
		errorResponse["details"] = err.Error()
	}

	h.send(w, r, statusCode, errorResponse)
}

// Login handles the login request and sets a session cookie
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Token string `json:"token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, r, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	if request.Token == "" {
		h.sendError(w, r, http.StatusBadRequest, "Token is required", nil)
		return
	}

	if !tokenMatches(request.Token, h.controller.managementConfig.AuthToken) {
		h.sendError(w, r, http.StatusUnauthorized, "Invalid token", nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    request.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Only set Secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	h.send(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
	})
}

// Logout handles the logout request and clears the session cookie
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // Expire immediately
	})

	h.send(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout successful",
	})
}

// GetStatus returns the status of the management API and the face
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	state := h.controller.host.FaceState()

	h.send(w, r, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now().Unix(),
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"face_state": state.State,
		"seq":        state.Seq,
	})
}

// GetFace returns the full face state
func (h *Handlers) GetFace(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, h.controller.host.FaceState())
}

// GetFramePNG returns the last rendered picture
func (h *Handlers) GetFramePNG(w http.ResponseWriter, r *http.Request) {
	data, err := h.controller.host.FramePNG()
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Failed to render frame", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// LongPress queues a long-press event
func (h *Handlers) LongPress(w http.ResponseWriter, r *http.Request) {
	h.queue(w, r, "longpress", h.controller.host.LongPress)
}

// ReloadSettings queues a settings reload
func (h *Handlers) ReloadSettings(w http.ResponseWriter, r *http.Request) {
	h.queue(w, r, "reload", h.controller.host.ReloadConfiguration)
}

func (h *Handlers) queue(w http.ResponseWriter, r *http.Request, event string, submit func(ctx context.Context) error) {
	err := submit(r.Context())
	switch {
	case errors.Is(err, interfaces.ErrBusy):
		h.sendError(w, r, http.StatusServiceUnavailable, "Face is busy, try again", err)
	case err != nil:
		h.sendError(w, r, http.StatusInternalServerError, "Failed to queue "+event, err)
	default:
		h.send(w, r, http.StatusAccepted, map[string]interface{}{
			"queued": event,
		})
	}
}

// GetConfig returns the current configuration with the API token redacted
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h.controller.configProvider == nil {
		h.sendError(w, r, http.StatusServiceUnavailable, "No config provider available", nil)
		return
	}

	configData, err := h.controller.configProvider.LoadConfig()
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}

	if configData.Management != nil {
		redacted := *configData.Management
		if redacted.AuthToken != "" {
			redacted.AuthToken = "********"
		}
		configData.Management = &redacted
	}

	h.send(w, r, http.StatusOK, map[string]interface{}{
		"config":       configData,
		"read_only":    h.controller.configProvider.IsReadOnly(),
		"timestamp":    time.Now().Unix(),
		"output_count": len(configData.Outputs),
	})
}

// GetHTTPLogs returns the recent management API requests
func (h *Handlers) GetHTTPLogs(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, map[string]interface{}{
		"entries": log.GetHTTPLogBuffer().Entries(),
	})
}
