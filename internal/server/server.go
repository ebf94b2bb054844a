// Package server builds the HTTP route table: the chat webhook, report
// exports, health and metrics endpoints, and the Connect admin API.
package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/chamabot/internal/auth"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/middleware"
	"github.com/mmynk/chamabot/internal/payment"
	"github.com/mmynk/chamabot/internal/service"
	"github.com/mmynk/chamabot/internal/storage"
)

// Options holds the dependencies the routes are built from.
type Options struct {
	Store   storage.Store
	Machine *payment.Machine
	Sweeper service.SweepRunner

	// Validator checks webhook signatures. Nil disables the check.
	Validator *messaging.SignatureValidator

	// PublicBaseURL is prefixed to the request URI when validating signatures.
	PublicBaseURL string

	// Location is the zone calendar months are counted in. Nil means UTC.
	Location *time.Location

	// JWTManager and Authenticator enable admin login. When JWTManager is nil
	// the admin API and reports are open.
	JWTManager    *auth.JWTManager
	Authenticator auth.Authenticator

	Logger *slog.Logger
}

// New returns the fully wrapped HTTP handler.
func New(opts Options) http.Handler {
	logger := opts.Logger
	mux := http.NewServeMux()

	wh := &webhookHandler{
		machine:   opts.Machine,
		validator: opts.Validator,
		baseURL:   opts.PublicBaseURL,
		logger:    logger,
	}
	mux.Handle("POST /webhook/whatsapp", wh)

	reports := &reportHandler{
		store:     opts.Store,
		perMember: opts.Machine.Amount(),
		logger:    logger,
	}
	mux.Handle("GET /reports/chama.pdf", requireToken(opts.JWTManager, http.HandlerFunc(reports.pdf)))
	mux.Handle("GET /reports/chama.html", requireToken(opts.JWTManager, http.HandlerFunc(reports.html)))

	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Interceptors run in order: auth first so the logger sees the admin.
	var interceptors []connect.Interceptor
	if opts.JWTManager != nil {
		interceptors = append(interceptors, middleware.RequireAuth(opts.JWTManager))

		authPath, authHandler := service.NewAuthServiceHandler(
			service.NewAuthService(opts.Authenticator, opts.JWTManager, logger),
			connect.WithInterceptors(middleware.LoggingInterceptor(logger)),
		)
		mux.Handle(authPath, authHandler)
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(logger))

	chamaPath, chamaHandler := service.NewChamaServiceHandler(
		service.NewChamaService(opts.Store, opts.Machine, opts.Sweeper, opts.Location, logger),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(chamaPath, chamaHandler)

	return middleware.Logging(logger, routeLabel, middleware.CORS(mux))
}

// routeLabel maps a request to a fixed set of metric labels.
func routeLabel(r *http.Request) string {
	switch p := r.URL.Path; {
	case p == "/webhook/whatsapp", p == "/reports/chama.pdf", p == "/reports/chama.html",
		p == "/healthz", p == "/metrics":
		return p
	case strings.HasPrefix(p, "/"+service.ChamaServiceName+"/"):
		return "/" + service.ChamaServiceName
	case strings.HasPrefix(p, "/"+service.AuthServiceName+"/"):
		return "/" + service.AuthServiceName
	default:
		return "other"
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// requireToken guards plain HTTP routes with the same bearer token the
// admin API accepts. A nil manager leaves the route open.
func requireToken(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	if jwtManager == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}
		if _, err := jwtManager.Validate(token); err != nil {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
