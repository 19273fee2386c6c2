package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dextersy/label-dashboard/internal/auth"
	"github.com/dextersy/label-dashboard/internal/config"
	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/handlers"
	middlewareCustom "github.com/dextersy/label-dashboard/internal/middleware"
	"github.com/dextersy/label-dashboard/internal/routes"
	"github.com/dextersy/label-dashboard/internal/services"
	pkglogger "github.com/dextersy/label-dashboard/pkg/logger"
)

// SentEmail represents a captured email message
type SentEmail struct {
	To      string
	Kind    string
	Token   string
	BrandID *string
}

// MockEmailService captures sent emails for test assertions. It stands in for
// the SES sender and the lockout alert notifier.
type MockEmailService struct {
	SentEmails    []SentEmail
	LockoutAlerts []string
	mu            sync.Mutex
}

func (m *MockEmailService) SendInviteEmail(ctx context.Context, brandID *string, recipient, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: recipient, Kind: "invite", Token: token, BrandID: brandID})
	return nil
}

func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, brandID *string, recipient, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: recipient, Kind: "password_reset", Token: token, BrandID: brandID})
	return nil
}

func (m *MockEmailService) NotifyLockout(ctx context.Context, username, remoteIP, proxyIP string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockoutAlerts = append(m.LockoutAlerts, username)
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// noopCommandRunner satisfies remote.CommandRunner without touching SSH
type noopCommandRunner struct{}

func (noopCommandRunner) Run(ctx context.Context, command string) (string, error) {
	return "", nil
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	Config       *config.Config
	TokenManager *auth.TokenManager

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-32-characters-long-for-testing",
			SystemTokenExpiry: 1 * time.Hour,
			TenantTokenExpiry: 24 * time.Hour,
			FailureThreshold:  3,
			LockWindow:        120 * time.Second,
			InviteTokenExpiry: 72 * time.Hour,
			ResetTokenExpiry:  1 * time.Hour,
			CleanupInterval:   1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	userRepo, loginAttemptRepo, brandRepo, songwriterRepo, ticketTypeRepo, emailLogRepo :=
		InitializeRepositories(db)

	mockEmail := &MockEmailService{}

	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SystemTokenExpiry,
		cfg.Auth.TenantTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	lockoutService := services.NewLockoutService(loginAttemptRepo, services.LockoutConfig{
		FailureThreshold: cfg.Auth.FailureThreshold,
		LockWindow:       cfg.Auth.LockWindow,
	}, logger)

	systemAuthService := services.NewSystemAuthService(userRepo, lockoutService, tokenManager, mockEmail, logger, auditLogger)
	userService := services.NewUserService(userRepo, mockEmail, services.UserServiceConfig{
		InviteTokenExpiry: cfg.Auth.InviteTokenExpiry,
		ResetTokenExpiry:  cfg.Auth.ResetTokenExpiry,
	}, logger, auditLogger)
	brandService := services.NewBrandService(brandRepo, net.DefaultResolver, noopCommandRunner{}, "edge.test.local", logger, auditLogger)
	songwriterService := services.NewSongwriterService(songwriterRepo, logger)
	ticketTypeService := services.NewTicketTypeService(ticketTypeRepo, logger)

	systemAuthHandler := handlers.NewSystemAuthHandler(systemAuthService)
	userHandler := handlers.NewUserHandler(userService, tokenManager)
	brandHandler := handlers.NewBrandHandler(brandService, emailLogRepo)
	songwriterHandler := handlers.NewSongwriterHandler(songwriterService)
	ticketTypeHandler := handlers.NewTicketTypeHandler(ticketTypeService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, systemAuthHandler, userHandler, brandHandler, songwriterHandler, ticketTypeHandler, tokenManager, userRepo)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		DB:           db,
		EmailService: mockEmail,
		Config:       cfg,
		TokenManager: tokenManager,
		logger:       logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with a session token
func (ts *TestServer) RequestWithAuth(method, path, token string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractTokenFromResponse extracts the session token from a login response
func ExtractTokenFromResponse(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	var loginResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", err
	}

	token, _ := loginResp["token"].(string)
	return token, nil
}

// GetErrorMessage extracts error message from error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
