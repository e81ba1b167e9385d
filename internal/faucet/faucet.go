package faucet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-datastore"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"github.com/consensus-shipyard/base-faucet/internal/cooldown"
	"github.com/consensus-shipyard/base-faucet/internal/db"
	"github.com/consensus-shipyard/base-faucet/internal/metrics"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

// BalanceUnavailable is displayed when the funding balance cannot be read.
const BalanceUnavailable = "unavailable"

var (
	ErrInvalidAddress = errors.New("invalid Ethereum address")
	ErrDispatchFailed = errors.New("transaction failed")
)

// CooldownError is returned when the address claimed within the cooldown window.
type CooldownError struct {
	HoursRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("address claimed recently, %d hours remaining", e.HoursRemaining)
}

// DefaultAmount is 0.001 ETH.
func DefaultAmount() *big.Int {
	return big.NewInt(1_000_000_000_000_000)
}

type Config struct {
	Amount   *big.Int
	Cooldown time.Duration
	ChainID  *big.Int
}

type Service struct {
	// serializes dispatches; balance reads do not take it
	mu sync.Mutex

	log     *logging.ZapEventLogger
	m       metrics.Metricer
	conn    NetworkConnection
	signer  Signer
	tracker *cooldown.Tracker
	cfg     *Config
	now     func() time.Time
}

func NewService(log *logging.ZapEventLogger, m metrics.Metricer, conn NetworkConnection, signer Signer, store datastore.Datastore, cfg *Config) *Service {
	if cfg.Amount == nil {
		cfg.Amount = DefaultAmount()
	}
	return &Service{
		log:     log,
		m:       m,
		conn:    conn,
		signer:  signer,
		tracker: cooldown.NewTracker(db.NewDatabase(store), cfg.Cooldown),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Service) FundingAddress() common.Address {
	return s.signer.From()
}

func (s *Service) Amount() *big.Int {
	return new(big.Int).Set(s.cfg.Amount)
}

func (s *Service) ChainID() *big.Int {
	return new(big.Int).Set(s.cfg.ChainID)
}

// Dispatch sends the configured amount to address and returns the hash of the
// broadcast transaction. It returns ErrInvalidAddress, a *CooldownError, or an
// error wrapping ErrDispatchFailed. Success means the node accepted the
// transaction, not that it was mined.
func (s *Service) Dispatch(ctx context.Context, address string) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	to, err := types.ParseAddress(address)
	if err != nil {
		s.log.Infow("claim rejected", "addr", address, "reason", metrics.RejectInvalidAddress)
		s.m.RecordClaimRejected(metrics.RejectInvalidAddress)
		return common.Hash{}, ErrInvalidAddress
	}

	eligibility, err := s.tracker.IsEligible(ctx, address, s.now())
	if err != nil {
		s.log.Errorw("failed to check eligibility", "addr", address, "err", err)
		return common.Hash{}, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	if !eligibility.Eligible {
		s.log.Infow("claim rejected", "addr", address, "reason", metrics.RejectCooldown, "hours_remaining", eligibility.HoursRemaining)
		s.m.RecordClaimRejected(metrics.RejectCooldown)
		return common.Hash{}, &CooldownError{HoursRemaining: eligibility.HoursRemaining}
	}

	s.log.Infof("funding %v is allowed", to)

	hash, err := s.transferETH(ctx, to)
	if err != nil {
		s.log.Errorw("failed to transfer eth", "addr", address, "err", err)
		return common.Hash{}, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	// The transfer is already out, so a failed write is logged rather than
	// reported as a failed claim.
	if err := s.tracker.RecordClaim(ctx, address, s.now()); err != nil {
		s.log.Errorw("transfer sent but claim not recorded", "addr", address, "tx", hash, "err", err)
	}

	return hash, nil
}

func (s *Service) transferETH(ctx context.Context, to common.Address) (hash common.Hash, err error) {
	onDone := s.m.RecordFundAction(s.cfg.Amount)
	defer func() {
		onDone(err)
	}()

	tx, err := Transfer(ctx, s.conn, s.signer, s.cfg.ChainID, to, s.cfg.Amount)
	if err != nil {
		return common.Hash{}, err
	}

	s.log.Infow("tx sent", "tx", tx.Hash().Hex(), "to", to, "nonce", tx.Nonce(), "gas", tx.Gas())
	return tx.Hash(), nil
}

// Balance returns the latest balance of the funding account in wei.
func (s *Service) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := s.conn.BalanceAt(ctx, s.signer.From(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// DisplayBalance returns the funding balance in ether, or BalanceUnavailable.
func (s *Service) DisplayBalance(ctx context.Context) string {
	balance, err := s.Balance(ctx)
	if err != nil {
		s.log.Warnw("balance unavailable", "err", err)
		s.m.RecordViewFailure(metrics.ViewBalance)
		return BalanceUnavailable
	}
	return types.FormatEther(balance)
}
