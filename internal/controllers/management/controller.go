package management

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/watchface/internal/interfaces"
	"github.com/chrissnell/watchface/internal/log"
	"github.com/chrissnell/watchface/pkg/config"
	"github.com/chrissnell/watchface/pkg/responseformat"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the management API controller
type Controller struct {
	ctx              context.Context
	wg               *sync.WaitGroup
	configProvider   config.ConfigProvider
	managementConfig config.ManagementAPIData
	Server           http.Server
	logger           *zap.SugaredLogger
	handlers         *Handlers
	formatter        *responseformat.Formatter
	host             interfaces.FaceHost
}

// NewController creates a new management API controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, mc config.ManagementAPIData, logger *zap.SugaredLogger, host interfaces.FaceHost) (*Controller, error) {
	if host == nil {
		return nil, fmt.Errorf("management API requires a face host")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := &Controller{
		ctx:              ctx,
		wg:               wg,
		configProvider:   configProvider,
		managementConfig: mc,
		logger:           logger,
		formatter:        responseformat.NewFormatter(),
		host:             host,
	}

	// Set default values
	if ctrl.managementConfig.Port == 0 {
		logger.Infof("management API port not specified; defaulting to %d", config.DefaultManagementPort)
		ctrl.managementConfig.Port = config.DefaultManagementPort
	}

	if ctrl.managementConfig.ListenAddr == "" {
		logger.Info("management API listen-addr not provided; defaulting to 127.0.0.1 (localhost only)")
		ctrl.managementConfig.ListenAddr = "127.0.0.1"
	}

	if ctrl.managementConfig.AuthToken == "" {
		// Not persisted: a fresh token is issued on every start until one is configured.
		ctrl.managementConfig.AuthToken = generateAuthToken()
		logger.Info("═══════════════════════════════════════════════════════════════")
		logger.Info("        NEW MANAGEMENT API ACCESS TOKEN GENERATED             ")
		logger.Info("═══════════════════════════════════════════════════════════════")
		logger.Infof("   Token: %s", ctrl.managementConfig.AuthToken)
		logger.Info("   Set management.auth-token to keep it across restarts")
		logger.Info("═══════════════════════════════════════════════════════════════")
	}

	if ctrl.configProvider == nil {
		logger.Warn("No config provider available - configuration endpoint will be limited")
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.managementConfig.ListenAddr, ctrl.managementConfig.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// AuthToken returns the token clients must present
func (c *Controller) AuthToken() string {
	return c.managementConfig.AuthToken
}

// StartController starts the management API server
func (c *Controller) StartController() error {
	c.logger.Info("Starting management API controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("Management API server starting on %s", c.Server.Addr)

		var err error
		if c.managementConfig.Cert != "" && c.managementConfig.Key != "" {
			c.logger.Info("Starting management API server with TLS")
			err = c.Server.ListenAndServeTLS(c.managementConfig.Cert, c.managementConfig.Key)
		} else {
			c.logger.Info("Starting management API server without TLS")
			err = c.Server.ListenAndServe()
		}

		if err != http.ErrServerClosed {
			c.logger.Errorf("Management API server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the management API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.loggingMiddleware)
	if c.managementConfig.EnableCORS {
		router.Use(c.corsMiddleware)
	}

	c.setupManagementInterface(router)

	// Authentication routes (no auth required)
	router.HandleFunc("/login", c.handlers.Login).Methods("POST")
	router.HandleFunc("/logout", c.handlers.Logout).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(c.authMiddleware)

	api.HandleFunc("/status", c.handlers.GetStatus).Methods("GET")
	api.HandleFunc("/face", c.handlers.GetFace).Methods("GET")
	api.HandleFunc("/frame.png", c.handlers.GetFramePNG).Methods("GET")
	api.HandleFunc("/longpress", c.handlers.LongPress).Methods("POST")
	api.HandleFunc("/settings/reload", c.handlers.ReloadSettings).Methods("POST")
	api.HandleFunc("/config", c.handlers.GetConfig).Methods("GET")
	api.HandleFunc("/logs/http", c.handlers.GetHTTPLogs).Methods("GET")

	return router
}

// setupManagementInterface serves the single-page preview
func (c *Controller) setupManagementInterface(router *mux.Router) {
	router.HandleFunc("/", c.serveManagementInterface).Methods("GET")
}

func (c *Controller) serveManagementInterface(w http.ResponseWriter, r *http.Request) {
	assets, err := GetAssets()
	if err != nil {
		c.logger.Errorf("Failed to open management assets: %v", err)
		http.Error(w, "Management interface not available", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		c.logger.Errorf("Failed to read index.html: %v", err)
		http.Error(w, "Management interface not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// statusRecorder captures the status code and body size for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// loggingMiddleware logs all requests except for noisy endpoints
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)

		// The preview page polls the frame; keep it out of the main log.
		if r.URL.Path != "/api/frame.png" && r.URL.Path != "/api/logs/http" {
			c.logger.Infof("%s %s %s %d %v", r.Method, r.RequestURI, r.RemoteAddr, rec.status, elapsed)
		}
		log.LogHTTPRequest(r.Method, r.URL.Path, rec.status, elapsed, rec.size, r.RemoteAddr, r.UserAgent(), nil)
	})
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates the bearer token or session cookie
func (c *Controller) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenMatches(requestToken(r), c.managementConfig.AuthToken) {
			next.ServeHTTP(w, r)
			return
		}

		c.logger.Debugf("Auth failed for %s - no valid token or cookie", r.URL.Path)
		c.handlers.sendError(w, r, http.StatusUnauthorized, "Authentication required", nil)
	})
}
