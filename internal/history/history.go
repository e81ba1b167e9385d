// Package history shows the faucet's recent outgoing transfers.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/ipfs/go-log/v2"

	"github.com/consensus-shipyard/base-faucet/internal/data"
	"github.com/consensus-shipyard/base-faucet/internal/metrics"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

const (
	DefaultLimit   = 5
	DefaultTxLink  = "https://sepolia.basescan.org/tx/"
	shortHashStart = 6
	shortHashEnd   = 4
)

// TransactionLister returns the transactions of an address, newest first.
type TransactionLister interface {
	TxList(ctx context.Context, address common.Address) ([]data.Transaction, error)
}

type Viewer struct {
	log     *logging.ZapEventLogger
	m       metrics.Metricer
	lister  TransactionLister
	funding common.Address
	limit   int
	txLink  string
}

func NewViewer(log *logging.ZapEventLogger, m metrics.Metricer, lister TransactionLister, funding common.Address, limit int, txLink string) *Viewer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if txLink == "" {
		txLink = DefaultTxLink
	}
	return &Viewer{
		log:     log,
		m:       m,
		lister:  lister,
		funding: funding,
		limit:   limit,
		txLink:  txLink,
	}
}

// Recent fetches once and returns at most limit outgoing transfers. Any
// failure is logged and yields an empty list.
func (v *Viewer) Recent(ctx context.Context) []data.Transaction {
	txs, err := v.lister.TxList(ctx, v.funding)
	if err != nil {
		v.log.Warnw("no transactions found or explorer error", "addr", v.funding, "err", err)
		v.m.RecordViewFailure(metrics.ViewHistory)
		return []data.Transaction{}
	}
	return Outgoing(txs, v.funding, v.limit)
}

// Render prepares txs for display at time now.
func (v *Viewer) Render(txs []data.Transaction, now time.Time) []data.TransactionView {
	views := make([]data.TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, data.TransactionView{
			Hash:      tx.Hash,
			ShortHash: ShortHash(tx.Hash),
			Link:      v.txLink + tx.Hash,
			To:        tx.To,
			Value:     types.FormatEther(tx.Value),
			Age:       TimeAgo(tx.Timestamp, now),
		})
	}
	return views
}

// Outgoing keeps the transfers sent by from, compared case-insensitively, in
// input order and truncated to limit.
func Outgoing(txs []data.Transaction, from common.Address, limit int) []data.Transaction {
	out := make([]data.Transaction, 0, limit)
	for _, tx := range txs {
		if len(out) == limit {
			break
		}
		if strings.EqualFold(tx.From, from.Hex()) {
			out = append(out, tx)
		}
	}
	return out
}

// TimeAgo describes how long before now the unix timestamp ts was, in the
// coarsest whole unit.
func TimeAgo(ts int64, now time.Time) string {
	diff := now.Unix() - ts

	switch {
	case diff < 60:
		return fmt.Sprintf("%d seconds ago", diff)
	case diff < 3600:
		return fmt.Sprintf("%d minutes ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%d hours ago", diff/3600)
	default:
		return fmt.Sprintf("%d days ago", diff/86400)
	}
}

// ShortHash abbreviates a hash as 0x1234...abcd.
func ShortHash(hash string) string {
	if len(hash) <= shortHashStart+shortHashEnd {
		return hash
	}
	return hash[:shortHashStart] + "..." + hash[len(hash)-shortHashEnd:]
}
