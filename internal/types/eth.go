package types

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

const (
	EthAddressLength    = 20
	EthAddressHexLength = 40

	// EtherDecimals is the number of wei decimal places in one ether.
	EtherDecimals = 18
)

var (
	ErrInvalidAddress = errors.New("invalid Ethereum address")
	ErrInvalidAmount  = errors.New("invalid ether amount")
)

var (
	hexAddressRe = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{40}$`)
	mixedCaseRe  = regexp.MustCompile(`([A-F].*[a-f])|([a-f].*[A-F])`)
)

// ParseAddress accepts 40 hex characters with an optional 0x prefix.
// Mixed-case input must carry a valid EIP-55 checksum; all-lower and
// all-upper input is accepted as is.
func ParseAddress(s string) (common.Address, error) {
	if !hexAddressRe.MatchString(s) {
		return common.Address{}, xerrors.Errorf("%w: %q is not a 20 byte hex string", ErrInvalidAddress, s)
	}

	prefixed := s
	if !strings.HasPrefix(prefixed, "0x") {
		prefixed = "0x" + prefixed
	}

	addr := common.HexToAddress(prefixed)
	if mixedCaseRe.MatchString(s) && addr.Hex() != prefixed {
		return common.Address{}, xerrors.Errorf("%w: bad checksum for %q", ErrInvalidAddress, s)
	}

	return addr, nil
}

func IsValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// ParseEther converts a positive decimal ether amount ("0.001") to wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, xerrors.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if d.Sign() <= 0 {
		return nil, xerrors.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}

	wei := d.Shift(EtherDecimals)
	if !wei.IsInteger() {
		return nil, xerrors.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, EtherDecimals)
	}

	return wei.BigInt(), nil
}

// FormatEther renders a wei amount in ether, always with at least one
// decimal place: 10^18 is "1.0", 10^15 is "0.001".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	s := decimal.NewFromBigInt(wei, -EtherDecimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
