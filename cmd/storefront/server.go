package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/account"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/kv"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/notify"
	"storefront/pkg/order"
	"storefront/pkg/otel"
	"storefront/pkg/session"
)

// originCookie identifies a client the way a browser origin scopes its
// local storage.
const originCookie = "origin_id"

type server struct {
	log      *logger.Logger
	tracer   trace.Tracer
	catalog  *catalog.Catalog
	kv       kv.Store
	bus      *notify.Bus
	accounts *account.Service
	orders   order.Repository
	checkout *checkout.Service
	metrics  *metrics.Metrics
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.traceMiddleware)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.NewRoute().Subrouter()
	api.Use(s.originMiddleware)
	api.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.getProductHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", s.addCartItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", s.removeCartItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items/{id}/toggle", s.toggleCartItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkout", s.checkoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/events", s.eventsHandler).Methods(http.MethodGet)
	api.HandleFunc("/register", s.registerHandler).Methods(http.MethodPost)
	api.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/profile", s.profileHandler).Methods(http.MethodGet)

	return r
}

func (s *server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.ExtractHeaders(r.Context(), r.Header)
		ctx = otel.InjectTracing(ctx, s.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type originKey struct{}

// originMiddleware makes sure every client carries an origin cookie.
func (s *server) originMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(originCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     originCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), originKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type profileKey struct{}

// authMiddleware ensures a signed-in session exists for the origin.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.sessionFor(r.Context()).Current(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), profileKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// scope is the origin's slice of the shared key-value store.
func (s *server) scope(ctx context.Context) *kv.Prefixed {
	id, _ := ctx.Value(originKey{}).(string)
	return kv.WithPrefix(s.kv, "origin/"+id+"/")
}

func (s *server) cartFor(ctx context.Context) *cart.Store {
	return cart.New(s.scope(ctx), s.bus, s.log, cart.WithObserver(s.metrics))
}

func (s *server) sessionFor(ctx context.Context) *session.Store {
	return session.New(s.scope(ctx))
}

// healthHandler reports whether shared storage answers.
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.kv.(interface{ Ping(context.Context) bool }); ok && !p.Ping(r.Context()) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
