package api

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/status-page/services/statuspage/cwmetrics"
	"github.com/iulianpascalau/status-page/services/statuspage/history"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

const tokenLifeSpan = 24 * time.Hour

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	settings       SettingsStore
	catalog        MetricsCatalog
	monthLabeler   history.MonthLabeler
	defaultRegion  string
	serviceKey     string
	username       string
	password       string
	listenAddr     string
	staticDir      string
	jwtSecret      []byte
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi  string
	AuthUsername   string
	AuthPassword   string
	ListenAddress  string
	StaticDir      string
	DefaultRegion  string
	Storage        Storage
	Settings       SettingsStore
	Catalog        MetricsCatalog
	MonthLabeler   history.MonthLabeler
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if check.IfNil(args.Settings) {
		return nil, errors.New("settings store is required")
	}
	if check.IfNil(args.Catalog) {
		return nil, errors.New("metrics catalog is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	defaultRegion := args.DefaultRegion
	if len(defaultRegion) == 0 {
		defaultRegion = cwmetrics.DefaultRegion
	}
	_, err := cwmetrics.RegionByID(defaultRegion)
	if err != nil {
		return nil, err
	}

	monthLabeler := args.MonthLabeler
	if monthLabeler == nil {
		monthLabeler = history.MonthLabel(time.UTC)
	}

	// Derive JWT secret from ServiceApiKey + random salt
	salt := make([]byte, 16)
	if _, err = rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	h := hmac.New(sha256.New, []byte(args.ServiceKeyApi))
	h.Write(salt)
	jwtSecret := h.Sum(nil)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		storage:        args.Storage,
		settings:       args.Settings,
		catalog:        args.Catalog,
		monthLabeler:   monthLabeler,
		defaultRegion:  defaultRegion,
		serviceKey:     args.ServiceKeyApi,
		username:       args.AuthUsername,
		password:       args.AuthPassword,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
		jwtSecret:      jwtSecret,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	// Public status page endpoints
	api.GET("/settings", s.handleGetPublicSettings)
	api.GET("/history", s.handleGetHistory)

	// Incident and maintenance ingestion
	api.POST("/incidents", s.authAPIKey(), s.handleSaveIncident)
	api.POST("/maintenances", s.authAPIKey(), s.handleSaveMaintenance)

	// Admin authentication
	api.POST("/auth/login", s.handleLogin)

	admin := api.Group("/admin")
	admin.Use(s.authJWT())
	{
		admin.GET("/settings", s.handleGetSettings)
		admin.PATCH("/settings", s.handleEditSettings)
		admin.PUT("/settings/logo", s.handleEditLogo)
		admin.DELETE("/settings/logo", s.handleRemoveLogo)
		admin.POST("/settings/apikeys", s.handleAddAPIKey)
		admin.DELETE("/settings/apikeys/:id", s.handleRemoveAPIKey)

		admin.DELETE("/incidents/:id", s.handleDeleteIncident)
		admin.DELETE("/maintenances/:id", s.handleDeleteMaintenance)

		admin.GET("/cloudwatch/regions", s.handleGetRegions)
		admin.GET("/cloudwatch/metrics", s.handleGetMetrics)
		admin.GET("/cloudwatch/selection", s.handleGetSelection)
		admin.PUT("/cloudwatch/selection", s.handleSaveSelection)
	}

	// Serve static files from the frontend build if configured
	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", path.Join(s.staticDir, "static"))
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		// NoRoute for SPA fallback
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}

// --- Middlewares ---

// authAPIKey accepts the service key and every enabled API key of the settings record
func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if !s.isKeyAccepted(key) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) isKeyAccepted(key string) bool {
	if len(key) == 0 {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.serviceKey)) == 1 {
		return true
	}

	for _, apiKey := range s.settings.Settings().APIKeys {
		if !apiKey.Enabled || len(apiKey.Value) == 0 {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey.Value)) == 1 {
			return true
		}
	}

	return false
}

// VERY basic JWT implementation for the admin session based on HS256
func (s *server) authJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		parts := strings.Split(tokenStr, ".")
		if len(parts) != 3 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Verify signature
		message := parts[0] + "." + parts[1]
		sig, err := base64.RawURLEncoding.DecodeString(parts[2])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token sign"})
			c.Abort()
			return
		}

		if !hmac.Equal(sig, s.sign(message)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		// Verify expiration
		var claims struct {
			Exp int64 `json:"exp"`
		}
		payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
		if err == nil {
			_ = json.Unmarshal(payloadBytes, &claims)
		}

		if time.Now().Unix() > claims.Exp {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *server) sign(message string) []byte {
	macd := hmac.New(sha256.New, s.jwtSecret)
	macd.Write([]byte(message))

	return macd.Sum(nil)
}

// areCredentialsValid compares both fields in constant time, an empty configured password never matches
func (s *server) areCredentialsValid(username string, password string) bool {
	if len(s.password) == 0 {
		return false
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.password))

	return usernameMatch&passwordMatch == 1
}

func (s *server) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if !s.areCredentialsValid(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// Generate basic JWT (Header.Payload.Signature)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, _ := json.Marshal(map[string]interface{}{
		"sub": req.Username,
		"exp": time.Now().Add(tokenLifeSpan).Unix(),
	})
	payload := base64.RawURLEncoding.EncodeToString(claims)

	msg := header + "." + payload
	sig := base64.RawURLEncoding.EncodeToString(s.sign(msg))

	c.JSON(http.StatusOK, gin.H{"token": msg + "." + sig})
}
