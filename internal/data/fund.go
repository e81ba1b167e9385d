package data

type FundRequest struct {
	Address string `json:"address"`
}

type FundResponse struct {
	Hash    string `json:"hash,omitempty"`
	Message string `json:"message"`
}

// ClaimRecord is the last successful claim for an address string exactly as
// it was entered. Timestamp is in milliseconds since the epoch.
type ClaimRecord struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}
