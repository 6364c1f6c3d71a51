// Package httpapi is the HTTP/JSON shell over the core services. It holds no
// business rules: handlers decode requests, call a service, and render the
// result. Session state (the caller's username and master key) travels in a
// signed bearer token, so the core below stays session-free.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/server/config"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// AccountService is the slice of the account manager the shell needs.
type AccountService interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, username, password string) (*models.Credentials, error)
}

// WalletService is the slice of the wallet manager the shell needs.
type WalletService interface {
	Create(ctx context.Context, name, login, password, host, masterKey string) (bool, error)
	Search(ctx context.Context, nameFilter, keyPrefix, masterKey string) ([]models.WalletRecord, error)
}

// KeyShareService is the slice of the key-sharing manager the shell needs.
type KeyShareService interface {
	SendRequest(ctx context.Context, fromUser, toUser string) (bool, error)
	ListIncoming(ctx context.Context, username string) ([]*models.KeyRequest, error)
	Respond(ctx context.Context, actingUser, requestID string, accept bool) error
	ListShared(ctx context.Context, username string) ([]*models.SharedKey, error)
}

type Server struct {
	address         string
	logger          logging.Logger
	accounts        AccountService
	wallets         WalletService
	keyShares       KeyShareService
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, as AccountService, ws WalletService, ks KeyShareService) *Server {
	return &Server{
		address:         cfg.EndpointAddr,
		logger:          l.With("module", "http_server"),
		accounts:        as,
		wallets:         ws,
		keyShares:       ks,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// Router wires all routes. Split out of Run so tests can drive the handlers
// through httptest without binding a socket.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticator)

		r.Get("/api/wallets", s.handleSearchWallets)
		r.Post("/api/wallets", s.handleCreateWallet)

		r.Get("/api/requests", s.handleListIncoming)
		r.Post("/api/requests", s.handleSendRequest)
		r.Post("/api/requests/{id}", s.handleRespond)

		r.Get("/api/keys", s.handleListShared)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
