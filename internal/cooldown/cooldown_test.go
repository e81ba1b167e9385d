package cooldown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/consensus-shipyard/base-faucet/internal/db"
)

const testAddr = "0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0"

func newTracker() *Tracker {
	return NewTracker(db.NewDatabase(dssync.MutexWrap(datastore.NewMapDatastore())), Window)
}

func TestNoRecordIsEligible(t *testing.T) {
	tr := newTracker()

	e, err := tr.IsEligible(context.Background(), testAddr, time.Now())
	require.NoError(t, err)
	require.Equal(t, Eligibility{Eligible: true}, e)
}

func TestHoursRemaining(t *testing.T) {
	ctx := context.Background()
	t0 := time.UnixMilli(1_700_000_000_000)

	testcases := []struct {
		elapsed  time.Duration
		eligible bool
		hours    int
	}{
		{0, false, 24},
		{time.Millisecond, false, 24},
		{time.Hour - time.Millisecond, false, 24},
		{time.Hour, false, 23},
		{time.Hour + time.Millisecond, false, 23},
		{23 * time.Hour, false, 1},
		{24*time.Hour - time.Millisecond, false, 1},
		{24 * time.Hour, true, 0},
		{48 * time.Hour, true, 0},
	}

	for _, tc := range testcases {
		tr := newTracker()
		require.NoError(t, tr.RecordClaim(ctx, testAddr, t0))

		e, err := tr.IsEligible(ctx, testAddr, t0.Add(tc.elapsed))
		require.NoError(t, err)
		require.Equal(t, tc.eligible, e.Eligible, "elapsed %s", tc.elapsed)
		require.Equal(t, tc.hours, e.HoursRemaining, "elapsed %s", tc.elapsed)
	}
}

func TestExactStringKeying(t *testing.T) {
	ctx := context.Background()
	tr := newTracker()
	now := time.Now()

	require.NoError(t, tr.RecordClaim(ctx, testAddr, now))

	e, err := tr.IsEligible(ctx, testAddr, now)
	require.NoError(t, err)
	require.False(t, e.Eligible)

	// Same account, different spelling: tracked independently.
	e, err = tr.IsEligible(ctx, "0xffcf8fdee72ac11b5c542428b35eef5769c409f0", now)
	require.NoError(t, err)
	require.True(t, e.Eligible)
}

func TestRecordClaimOverwrites(t *testing.T) {
	ctx := context.Background()
	tr := newTracker()
	t0 := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, tr.RecordClaim(ctx, testAddr, t0))
	require.NoError(t, tr.RecordClaim(ctx, testAddr, t0.Add(20*time.Hour)))

	e, err := tr.IsEligible(ctx, testAddr, t0.Add(25*time.Hour))
	require.NoError(t, err)
	require.False(t, e.Eligible)
	require.Equal(t, 19, e.HoursRemaining)
}

func TestCustomWindow(t *testing.T) {
	ctx := context.Background()
	repo := db.NewDatabase(dssync.MutexWrap(datastore.NewMapDatastore()))
	t0 := time.UnixMilli(1_700_000_000_000)

	tr := NewTracker(repo, 2*time.Hour)
	require.Equal(t, 2*time.Hour, tr.Window())
	require.NoError(t, tr.RecordClaim(ctx, testAddr, t0))

	e, err := tr.IsEligible(ctx, testAddr, t0.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, Eligibility{Eligible: false, HoursRemaining: 2}, e)

	require.Equal(t, Window, NewTracker(repo, 0).Window())
}

type failingRepo struct{}

func (failingRepo) LastClaim(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("disk on fire")
}

func (failingRepo) SetLastClaim(context.Context, string, time.Time) error {
	return errors.New("disk on fire")
}

func TestRepositoryErrors(t *testing.T) {
	tr := NewTracker(failingRepo{}, Window)

	_, err := tr.IsEligible(context.Background(), testAddr, time.Now())
	require.ErrorContains(t, err, "disk on fire")

	err = tr.RecordClaim(context.Background(), testAddr, time.Now())
	require.ErrorContains(t, err, "disk on fire")
}
