package metrics

import "math/big"

type NoopMetrics struct{}

func (n NoopMetrics) RecordInfo(version string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordFundAction(amount *big.Int) (onDone func(err error)) {
	return func(err error) {}
}

func (n NoopMetrics) RecordClaimRejected(reason string) {}

func (n NoopMetrics) RecordViewFailure(view string) {}

var _ Metricer = NoopMetrics{}
