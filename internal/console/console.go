// Package console serves the envelope-encryption demo UI and its JSON API.
//
// Four tabs map onto the routes: encrypt (payload + recipient list),
// decrypt (manual and debounced auto-run), unwrap/wrap (single wrapped-key
// operations), and self-test (round-trip vectors per cipher and scheme).
// All state is in-memory and the server binds to localhost by default;
// nothing here is meant to face a network.
package console

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

//go:embed static
var staticFS embed.FS

// Server is the console HTTP server.
type Server struct {
	cfg     config
	logger  *slog.Logger
	session *Session

	httpServer *http.Server
}

// New creates a console server. Options override the localhost defaults.
func New(opts ...Option) *Server {
	cfg := config{
		listenAddr:     defaultListenAddr,
		debounceDelay:  defaultDebounceDelay,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		maxRequestSize: defaultMaxRequestSize,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.logger,
		session: NewSession(cfg.debounceDelay),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.listenAddr,
		Handler:      s.handler(),
		ReadTimeout:  cfg.readTimeout,
		WriteTimeout: cfg.writeTimeout,
	}

	return s
}

// handler builds the router with CORS and request logging around it.
func (s *Server) handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc(encryptPath, s.handleEncrypt).Methods(http.MethodPost)

	r.HandleFunc(recipientsPath, s.handleListRecipients).Methods(http.MethodGet)
	r.HandleFunc(recipientsPath, s.handleAddRecipient).Methods(http.MethodPost)
	r.HandleFunc(recipientPath, s.handleRemoveRecipient).Methods(http.MethodDelete)

	// Register the longer paths first: mux matches in order.
	r.HandleFunc(decryptAutoPath, s.handleDecryptAuto).Methods(http.MethodPost)
	r.HandleFunc(decryptResultPath, s.handleDecryptResult).Methods(http.MethodGet)
	r.HandleFunc(decryptPath, s.handleDecrypt).Methods(http.MethodPost)

	r.HandleFunc(wrapPath, s.handleWrap).Methods(http.MethodPost)
	r.HandleFunc(unwrapPath, s.handleUnwrap).Methods(http.MethodPost)

	r.HandleFunc(selfTestVectorPath, s.handleSelfTestVector).Methods(http.MethodGet)
	r.HandleFunc(selfTestPath, s.handleSelfTest).Methods(http.MethodPost)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed guarantees the subtree exists at build time.
		panic(err)
	}
	r.PathPrefix("/").Handler(http.FileServer(http.FS(static)))

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
	})

	return c.Handler(s.logRequests(r))
}

// logRequests emits one debug line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// Session exposes the server's session, mainly for tests.
func (s *Server) Session() *Session {
	return s.session
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting console", "addr", s.httpServer.Addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down console")
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Error("graceful shutdown failed", "err", err)
			return err
		}
		s.logger.Info("console shut down")
		return nil

	case err := <-serverErr:
		if err != nil {
			s.logger.Error("console server failed", "err", err)
		}
		return err
	}
}
