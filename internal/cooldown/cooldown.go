// Package cooldown decides whether an address may claim again.
package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Window is the default time an address has to wait between successful claims.
const Window = 24 * time.Hour

// Repository persists the last claim time per address string.
type Repository interface {
	LastClaim(ctx context.Context, address string) (time.Time, bool, error)
	SetLastClaim(ctx context.Context, address string, t time.Time) error
}

type Eligibility struct {
	Eligible       bool
	HoursRemaining int
}

type Tracker struct {
	repo   Repository
	window time.Duration
}

// NewTracker returns a Tracker using window, or Window if window is not positive.
func NewTracker(repo Repository, window time.Duration) *Tracker {
	if window <= 0 {
		window = Window
	}
	return &Tracker{
		repo:   repo,
		window: window,
	}
}

func (t *Tracker) Window() time.Duration {
	return t.window
}

// IsEligible looks up address exactly as given. Check and record are separate
// calls, so two callers racing on the same address can both be told yes.
func (t *Tracker) IsEligible(ctx context.Context, address string, now time.Time) (Eligibility, error) {
	last, found, err := t.repo.LastClaim(ctx, address)
	if err != nil {
		return Eligibility{}, fmt.Errorf("failed to read last claim: %w", err)
	}
	if !found {
		return Eligibility{Eligible: true}, nil
	}

	elapsed := time.Duration(now.UnixMilli()-last.UnixMilli()) * time.Millisecond
	if elapsed >= t.window {
		return Eligibility{Eligible: true}, nil
	}

	return Eligibility{
		Eligible:       false,
		HoursRemaining: ceilHours(t.window - elapsed),
	}, nil
}

func (t *Tracker) RecordClaim(ctx context.Context, address string, now time.Time) error {
	if err := t.repo.SetLastClaim(ctx, address, now); err != nil {
		return fmt.Errorf("failed to record claim: %w", err)
	}
	return nil
}

func ceilHours(d time.Duration) int {
	return int((d + time.Hour - 1) / time.Hour)
}
