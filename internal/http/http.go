package http

import (
	"context"
	"embed"
	"io/fs"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/consensus-shipyard/base-faucet/internal/faucet"
	"github.com/consensus-shipyard/base-faucet/internal/history"
)

//go:embed static
var staticFiles embed.FS

// HeadReader reads the latest block header; used by the health checks.
type HeadReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type Config struct {
	AllowedOrigins []string
	NetworkName    string
	Build          string
}

func FaucetHandler(logger *logging.ZapEventLogger, client HeadReader, faucetService *faucet.Service, viewer *history.Viewer, gatherer prometheus.Gatherer, cfg *Config) http.Handler {
	h := NewHealth(logger, client, faucetService, cfg.Build)
	srv := NewWebService(logger, faucetService, viewer, cfg.NetworkName)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}

	r := mux.NewRouter().StrictSlash(true)

	r.HandleFunc("/readiness", h.Readiness).Methods(http.MethodGet)
	r.HandleFunc("/liveness", h.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/fund", srv.handleFunds).Methods(http.MethodPost)
	r.HandleFunc("/balance", srv.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/transactions", srv.handleTransactions).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/", srv.handleHome).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	})

	return c.Handler(r)
}
