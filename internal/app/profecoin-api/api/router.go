package api

import (
	"context"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

type WriteService interface {
	Mint(ctx context.Context, req types.MintRequest) (types.WriteResult, error)

	Award(ctx context.Context, req types.AwardRequest) (types.WriteResult, error)

	UpdateAchievementURI(ctx context.Context, tokenID string, req types.UpdateURIRequest) (types.WriteResult, error)
}

type ReadService interface {
	NetworkStatus(ctx context.Context) (types.NetworkStatus, error)

	TotalSupply(ctx context.Context) (types.TotalSupply, error)

	TokenBalance(ctx context.Context, address string) (types.TokenBalance, error)

	AchievementBalance(ctx context.Context, address string) (types.AchievementBalance, error)

	AchievementOwner(ctx context.Context, tokenID string) (types.AchievementOwner, error)
}

type History interface {
	GetRecentWriteRecords(ctx context.Context, limit int) ([]types.WriteRecord, error)
}

// Deps holds the long-lived handles built once in main.
type Deps struct {
	Config *infrastructure.Config
	Writer WriteService
	Reader ReadService
	// History is nil when no journal database is configured.
	History  History
	Registry *prometheus.Registry
}

type server struct {
	Deps
	metrics *Metrics
}

func NewRouter(deps Deps) http.Handler {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	s := &server{Deps: deps, metrics: NewMetrics(deps.Registry)}

	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)

	r.HandleFunc("/", s.rootHandler()).Methods(http.MethodGet)
	r.HandleFunc("/api/status-red", s.networkStatusHandler()).Methods(http.MethodGet)

	r.HandleFunc("/api/profecoin/total-supply", s.totalSupplyHandler()).Methods(http.MethodGet)
	r.HandleFunc("/api/profecoin/mint", s.mintHandler()).Methods(http.MethodPost)
	r.HandleFunc("/api/profecoin/balance/{address}", s.tokenBalanceHandler()).Methods(http.MethodGet)

	r.HandleFunc("/api/logronft/award", s.awardHandler()).Methods(http.MethodPost)
	r.HandleFunc("/api/logronft/balance/{address}", s.achievementBalanceHandler()).Methods(http.MethodGet)
	r.HandleFunc("/api/logronft/owner/{tokenId}", s.achievementOwnerHandler()).Methods(http.MethodGet)
	r.HandleFunc("/api/logronft/update/{tokenId}", s.updateURIHandler()).Methods(http.MethodPut)

	r.HandleFunc("/api/transactions", s.transactionsHandler()).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var origins []string
	if deps.Config != nil {
		origins = deps.Config.CorsAllowedOrigins
	}
	withCors := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         600,
	})

	return hlog.NewHandler(log.Logger)(requestID(accessLog()(withCors(r))))
}
