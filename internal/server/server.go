// Package server exposes the GraphQL API and the order QR codes over HTTP.
package server

import (
	"net/http"
	"strings"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/rs/cors"
	"github.com/vvakame/foodexpress/internal/config"
	"github.com/vvakame/foodexpress/internal/graph"
	"github.com/vvakame/foodexpress/internal/order"
	"github.com/vvakame/foodexpress/internal/projection"
	"github.com/vvakame/foodexpress/internal/store"
)

type Server struct {
	cfg        config.Server
	logger     logr.Logger
	projection *projection.Projector
	router     chi.Router
}

func New(logger logr.Logger, cfg config.Server, s *store.Store, orders *order.Engine) *Server {
	srv := &Server{
		cfg:        cfg,
		logger:     logger,
		projection: projection.New(s),
	}

	gql := handler.NewDefaultServer(graph.NewExecutableSchema(graph.NewResolver(s, orders)))
	gql.SetErrorPresenter(graph.ErrorPresenter)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)
	r.Use(identity)

	if cfg.Playground {
		r.Handle("/", playground.Handler("FoodExpress", "/query"))
	}
	r.Handle("/query", gql)
	r.Get("/orders/{id}/qrcode.png", srv.orderQRCode)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	srv.router = r

	return srv
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(w, r)
}

// TrackingURL is the front end page a QR code of orderID points to.
func (srv *Server) TrackingURL(orderID string) string {
	return strings.TrimRight(srv.cfg.PublicURL, "/") + "/orders/" + orderID
}
