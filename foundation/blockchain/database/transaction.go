package database

import (
	"errors"
	"fmt"
	"math"
)

// Set of errors returned when a transaction can't be applied.
var (
	ErrUnknownAccount    = errors.New("unknown account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

// =============================================================================

// Tx is the transactional information between two parties. A Tx carries
// no signature, the sender is trusted by the node that admitted it.
type Tx struct {
	FromID AccountID `json:"from"`   // Account sending the value.
	ToID   AccountID `json:"to"`     // Account receiving the benefit of the transaction.
	Amount uint64    `json:"amount"` // Monetary value moved by this transaction.
}

// NewTx constructs a new transaction.
func NewTx(fromID AccountID, toID AccountID, amount uint64) Tx {
	return Tx{
		FromID: fromID,
		ToID:   toID,
		Amount: amount,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.FromID.Short(), tx.ToID.Short(), tx.Amount)
}

// =============================================================================

// applyTx performs the business logic for applying a transaction against
// the specified set of balances. The balances are only changed if the
// transaction is valid.
func applyTx(balances map[AccountID]uint64, tx Tx) error {
	from, exists := balances[tx.FromID]
	if !exists {
		return fmt.Errorf("transaction invalid, from %s: %w", tx.FromID, ErrUnknownAccount)
	}

	if from < tx.Amount {
		return fmt.Errorf("transaction invalid, bal %d, needed %d: %w", from, tx.Amount, ErrInsufficientFunds)
	}

	// A transfer to self can't overflow since the debit comes first.
	if tx.FromID != tx.ToID {
		if to := balances[tx.ToID]; to > math.MaxUint64-tx.Amount {
			return fmt.Errorf("transaction invalid, bal %d, credit %d: %w", to, tx.Amount, ErrBalanceOverflow)
		}
	}

	balances[tx.FromID] = from - tx.Amount
	balances[tx.ToID] += tx.Amount

	return nil
}
