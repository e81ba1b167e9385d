package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/pkg/errors"

	"github.com/consensus-shipyard/base-faucet/internal/data"
)

// ClaimKeyPrefix prefixes the raw address string in claim keys.
const ClaimKeyPrefix = "lastClaim_"

type Database struct {
	store datastore.Datastore
}

func NewDatabase(store datastore.Datastore) *Database {
	return &Database{
		store: store,
	}
}

// LastClaim returns the last claim time recorded for address. The address is
// used verbatim, so differently cased spellings are independent records.
func (db *Database) LastClaim(ctx context.Context, address string) (time.Time, bool, error) {
	b, err := db.store.Get(ctx, claimKey(address))
	if errors.Is(err, datastore.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get last claim: %w", err)
	}

	ms, err := decodeTimestamp(b)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode last claim for %s: %w", address, err)
	}
	return time.UnixMilli(ms), true, nil
}

func (db *Database) SetLastClaim(ctx context.Context, address string, t time.Time) error {
	err := db.store.Put(ctx, claimKey(address), []byte(strconv.FormatInt(t.UnixMilli(), 10)))
	if err != nil {
		return fmt.Errorf("failed to put last claim into db: %w", err)
	}
	return nil
}

// Claims lists every stored claim record. Records are never expired, so this
// grows with the number of distinct address strings ever funded.
func (db *Database) Claims(ctx context.Context) ([]data.ClaimRecord, error) {
	// Query prefixes only match whole path segments, so filter on the raw key.
	res, err := db.store.Query(ctx, query.Query{
		Filters: []query.Filter{query.FilterKeyPrefix{Prefix: "/" + ClaimKeyPrefix}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer res.Close()

	var records []data.ClaimRecord
	for r := range res.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("failed to iterate claims: %w", r.Error)
		}
		ms, err := decodeTimestamp(r.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode claim %s: %w", r.Key, err)
		}
		records = append(records, data.ClaimRecord{
			Address:   strings.TrimPrefix(r.Key, "/"+ClaimKeyPrefix),
			Timestamp: ms,
		})
	}
	return records, nil
}

func claimKey(address string) datastore.Key {
	return datastore.NewKey(ClaimKeyPrefix + address)
}

func decodeTimestamp(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}
