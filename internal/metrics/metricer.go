package metrics

import "math/big"

const (
	RejectInvalidAddress = "invalid_address"
	RejectCooldown       = "cooldown"

	ViewBalance = "balance"
	ViewHistory = "history"
)

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	RecordFundAction(amount *big.Int) (onDone func(err error))
	RecordClaimRejected(reason string)
	RecordViewFailure(view string)
}
