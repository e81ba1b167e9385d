// Package explorer is a client for the Etherscan v2 account API.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/consensus-shipyard/base-faucet/internal/data"
)

const (
	DefaultAPIHost           = "https://api.etherscan.io/v2/api"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 5

	maxResponseSize = 16 << 20
)

// ErrAPI is returned when the explorer answers with a non-success status.
// "No transactions found" is reported this way as well.
var ErrAPI = errors.New("explorer api error")

type Config struct {
	APIHost           string
	APIKey            string
	ChainID           uint64
	Timeout           time.Duration
	RequestsPerSecond float64
}

type Client struct {
	log        *logging.ZapEventLogger
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewClient builds a client. A nil limiter is replaced by one allowing
// cfg.RequestsPerSecond.
func NewClient(log *logging.ZapEventLogger, cfg Config, limiter *rate.Limiter) *Client {
	if cfg.APIHost == "" {
		cfg.APIHost = DefaultAPIHost
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "explorer",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// The explorer answered; only transport and decoding problems trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrAPI)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Infow("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		log:        log,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		breaker:    breaker,
	}
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type apiTransaction struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	TimeStamp string `json:"timeStamp"`
}

// TxList returns the transactions of address, newest first. It makes a single
// request and never retries.
func (c *Client) TxList(ctx context.Context, address common.Address) ([]data.Transaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.txList(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return res.([]data.Transaction), nil
}

func (c *Client) txList(ctx context.Context, address common.Address) ([]data.Transaction, error) {
	params := url.Values{}
	params.Set("chainid", strconv.FormatUint(c.cfg.ChainID, 10))
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address.Hex())
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "desc")
	params.Set("apikey", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIHost+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Status != "1" {
		return nil, fmt.Errorf("%w: %s", ErrAPI, apiResp.Message)
	}

	var raw []apiTransaction
	if err := json.Unmarshal(apiResp.Result, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	txs := make([]data.Transaction, 0, len(raw))
	for _, r := range raw {
		tx, err := r.toTransaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (r apiTransaction) toTransaction() (data.Transaction, error) {
	value, ok := new(big.Int).SetString(r.Value, 10)
	if !ok {
		return data.Transaction{}, fmt.Errorf("malformed value %q in tx %s", r.Value, r.Hash)
	}
	ts, err := strconv.ParseInt(r.TimeStamp, 10, 64)
	if err != nil {
		return data.Transaction{}, fmt.Errorf("malformed timestamp %q in tx %s: %w", r.TimeStamp, r.Hash, err)
	}
	return data.Transaction{
		Hash:      r.Hash,
		From:      r.From,
		To:        r.To,
		Value:     value,
		Timestamp: ts,
	}, nil
}
