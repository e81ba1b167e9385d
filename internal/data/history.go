package data

import "math/big"

// Transaction is a transfer as reported by the block explorer.
type Transaction struct {
	Hash      string
	From      string
	To        string
	Value     *big.Int
	Timestamp int64 // unix seconds
}

// TransactionView is a Transaction prepared for display.
type TransactionView struct {
	Hash      string `json:"hash"`
	ShortHash string `json:"short_hash"`
	Link      string `json:"link"`
	To        string `json:"to"`
	Value     string `json:"value"`
	Age       string `json:"age"`
}
