package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	logging "github.com/ipfs/go-log/v2"

	"github.com/consensus-shipyard/base-faucet/internal/data"
	"github.com/consensus-shipyard/base-faucet/internal/faucet"
	"github.com/consensus-shipyard/base-faucet/internal/platform/web"
	"github.com/consensus-shipyard/base-faucet/pkg/version"
)

const readinessTimeout = 10 * time.Second

type Health struct {
	log    *logging.ZapEventLogger
	client HeadReader
	faucet *faucet.Service
	build  string
}

func NewHealth(log *logging.ZapEventLogger, client HeadReader, faucet *faucet.Service, build string) *Health {
	return &Health{
		log:    log,
		client: client,
		faucet: faucet,
		build:  build,
	}
}

// head returns the latest header, answering 500 itself when the node is unreachable.
func (h *Health) head(ctx context.Context, w http.ResponseWriter, check string) (*types.Header, bool) {
	head, err := h.client.HeaderByNumber(ctx, nil)
	if err != nil {
		h.log.Warnw(check+" failure", "status", "eth client not ready", "err", err)
		web.RespondError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return head, true
}

// Liveness reports the build, the funding account and the chain head.
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	head, ok := h.head(r.Context(), w, "liveness")
	if !ok {
		return
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	h.log.Debugw("liveness check", "block", head.Number, "remote", r.RemoteAddr)

	h.respond(w, r, data.LivenessResponse{
		Host:            host,
		Build:           h.build,
		ChainID:         h.faucet.ChainID().Uint64(),
		FaucetAddress:   h.faucet.FundingAddress().Hex(),
		LastBlockTime:   time.Unix(int64(head.Time), 0).UTC().String(),
		LastBlockNumber: head.Number.Uint64(),
		ServiceVersion:  version.Version(),
	})
}

// Readiness answers 200 once the RPC node serves headers.
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if _, ok := h.head(ctx, w, "readiness"); !ok {
		return
	}

	h.respond(w, r, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}

func (h *Health) respond(w http.ResponseWriter, r *http.Request, resp any) {
	if err := web.Respond(r.Context(), w, resp, http.StatusOK); err != nil {
		web.RespondError(w, http.StatusInternalServerError, err)
	}
}
