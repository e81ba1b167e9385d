package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"github.com/consensus-shipyard/base-faucet/internal/data"
	"github.com/consensus-shipyard/base-faucet/internal/faucet"
	"github.com/consensus-shipyard/base-faucet/internal/history"
	"github.com/consensus-shipyard/base-faucet/internal/platform/web"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

const (
	MsgInvalidAddress = "Invalid Ethereum address"
	MsgCooldownFormat = "Please wait %d hours before requesting again."
	MsgDispatchFailed = "Transaction failed. Please try again."
	MsgSentFormat     = "Transaction sent! Hash: %s"
)

var homeTemplate = template.Must(template.ParseFS(staticFiles, "static/index.html"))

type FaucetWebService struct {
	log         *logging.ZapEventLogger
	faucet      *faucet.Service
	viewer      *history.Viewer
	networkName string
	now         func() time.Time
}

func NewWebService(log *logging.ZapEventLogger, faucet *faucet.Service, viewer *history.Viewer, networkName string) *FaucetWebService {
	return &FaucetWebService{
		log:         log,
		faucet:      faucet,
		viewer:      viewer,
		networkName: networkName,
		now:         time.Now,
	}
}

func (h *FaucetWebService) handleFunds(w http.ResponseWriter, r *http.Request) {
	var req data.FundRequest

	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, http.StatusBadRequest, err)
		return
	}

	h.log.Infof("%s requests funds for %s", r.RemoteAddr, req.Address)

	hash, err := h.faucet.Dispatch(r.Context(), req.Address)

	var cooldownErr *faucet.CooldownError
	switch {
	case err == nil:
		h.respond(w, r, data.FundResponse{
			Hash:    hash.Hex(),
			Message: fmt.Sprintf(MsgSentFormat, hash.Hex()),
		}, http.StatusCreated)

	case errors.Is(err, faucet.ErrInvalidAddress):
		h.respond(w, r, data.FundResponse{Message: MsgInvalidAddress}, http.StatusBadRequest)

	case errors.As(err, &cooldownErr):
		w.Header().Set("Retry-After", strconv.Itoa(cooldownErr.HoursRemaining*3600))
		h.respond(w, r, data.FundResponse{
			Message: fmt.Sprintf(MsgCooldownFormat, cooldownErr.HoursRemaining),
		}, http.StatusTooManyRequests)

	default:
		// the cause was logged by the faucet and is not shown to the user
		h.respond(w, r, data.FundResponse{Message: MsgDispatchFailed}, http.StatusInternalServerError)
	}
}

func (h *FaucetWebService) handleBalance(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, data.BalanceResponse{
		Address: h.faucet.FundingAddress().Hex(),
		Balance: h.faucet.DisplayBalance(r.Context()),
	}, http.StatusOK)
}

func (h *FaucetWebService) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs := h.viewer.Recent(r.Context())
	h.respond(w, r, h.viewer.Render(txs, h.now()), http.StatusOK)
}

type homePage struct {
	NetworkName   string
	FaucetAddress common.Address
	Amount        string
	Balance       string
	Transactions  []data.TransactionView
}

func (h *FaucetWebService) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := homePage{
		NetworkName:   h.networkName,
		FaucetAddress: h.faucet.FundingAddress(),
		Amount:        types.FormatEther(h.faucet.Amount()),
		Balance:       h.faucet.DisplayBalance(ctx),
		Transactions:  h.viewer.Render(h.viewer.Recent(ctx), h.now()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, page); err != nil {
		h.log.Errorw("failed to render home page", "err", err)
	}
}

func (h *FaucetWebService) respond(w http.ResponseWriter, r *http.Request, resp any, statusCode int) {
	if err := web.Respond(r.Context(), w, resp, statusCode); err != nil {
		web.RespondError(w, http.StatusInternalServerError, err)
	}
}
