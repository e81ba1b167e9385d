package explorer

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const (
	testAPIKey    = "test-key"
	faucetAddress = "0xc5ae0c80057661FfE0c28544F5Fa27328f92fFf2"
)

func newTestClient(url string) *Client {
	return NewClient(logging.Logger("TEST-EXPLORER"), Config{
		APIHost: url,
		APIKey:  testAPIKey,
		ChainID: 84532,
	}, rate.NewLimiter(rate.Inf, 1))
}

func TestTxList(t *testing.T) {
	fakeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "84532", q.Get("chainid"))
		require.Equal(t, "account", q.Get("module"))
		require.Equal(t, "txlist", q.Get("action"))
		require.Equal(t, common.HexToAddress(faucetAddress).Hex(), q.Get("address"))
		require.Equal(t, "0", q.Get("startblock"))
		require.Equal(t, "99999999", q.Get("endblock"))
		require.Equal(t, "desc", q.Get("sort"))
		require.Equal(t, testAPIKey, q.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[
			{"hash":"0xaa","from":"0xc5ae0c80057661ffe0c28544f5fa27328f92fff2","to":"0x01","value":"1000000000000000","timeStamp":"1700000000","nonce":"3"},
			{"hash":"0xbb","from":"0x02","to":"0xc5ae0c80057661ffe0c28544f5fa27328f92fff2","value":"0","timeStamp":"1699999999"}
		]}`))
	}))
	defer fakeServer.Close()

	txs, err := newTestClient(fakeServer.URL).TxList(context.Background(), common.HexToAddress(faucetAddress))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	require.Equal(t, "0xaa", txs[0].Hash)
	require.Equal(t, "0x01", txs[0].To)
	require.Equal(t, big.NewInt(1_000_000_000_000_000), txs[0].Value)
	require.Equal(t, int64(1700000000), txs[0].Timestamp)
	require.Equal(t, "0x02", txs[1].From)
}

func TestTxListFailures(t *testing.T) {
	testcases := map[string]http.HandlerFunc{
		"no transactions": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(apiResponse{Status: "0", Message: "No transactions found", Result: json.RawMessage(`[]`)})
		},
		"bad api key": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>rate limited</html>`))
		},
		"malformed value": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[{"hash":"0xaa","from":"0x01","to":"0x02","value":"lots","timeStamp":"1"}]}`))
		},
		"malformed timestamp": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[{"hash":"0xaa","from":"0x01","to":"0x02","value":"1","timeStamp":"yesterday"}]}`))
		},
	}

	for name, handler := range testcases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			txs, err := newTestClient(srv.URL).TxList(context.Background(), common.HexToAddress(faucetAddress))
			require.Error(t, err)
			require.Nil(t, txs)
		})
	}
}

func TestTxListAPIErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","message":"No transactions found","result":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).TxList(context.Background(), common.HexToAddress(faucetAddress))
	require.True(t, errors.Is(err, ErrAPI))
	require.ErrorContains(t, err, "No transactions found")
}

func TestCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.TxList(ctx, common.HexToAddress(faucetAddress))
		require.Error(t, err)
	}

	_, err := c.TxList(ctx, common.HexToAddress(faucetAddress))
	require.True(t, errors.Is(err, gobreaker.ErrOpenState))
	require.Equal(t, int32(5), hits.Load())
}

func TestAPIErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":"0","message":"No transactions found","result":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 10; i++ {
		_, err := c.TxList(context.Background(), common.HexToAddress(faucetAddress))
		require.True(t, errors.Is(err, ErrAPI))
	}
	require.Equal(t, int32(10), hits.Load())
}
