package data

type LivenessResponse struct {
	Build           string `json:"build"`
	ChainID         uint64 `json:"chain_id"`
	FaucetAddress   string `json:"faucet_address"`
	LastBlockNumber uint64 `json:"n"`
	LastBlockTime   string `json:"time"`
	Host            string `json:"host"`
	ServiceVersion  string `json:"service_version"`
}
