package public

import (
	"github.com/ardanlabs/floodchain/business/sys/validate"
	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
)

type account struct {
	Account database.AccountID `json:"account"`
	Balance uint64             `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []account `json:"balances"`
}

// NewTx is what a wallet submits to move funds between accounts.
type NewTx struct {
	From   string `json:"from" validate:"required,account"`
	To     string `json:"to" validate:"required,account"`
	Amount uint64 `json:"amount"`
}

// Validate checks the transaction fields are well formed.
func (ntx NewTx) Validate() error {
	return validate.Check(ntx)
}

// NewMessage is a free form text message sent to every peer.
type NewMessage struct {
	Message string `json:"message" validate:"required,max=4096"`
}

// Validate checks the message is not empty.
func (nm NewMessage) Validate() error {
	return validate.Check(nm)
}

type status struct {
	Status string `json:"status"`
}
