package database

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
)

// Account represents information stored in the database for an individual account.
type Account struct {
	AccountID AccountID `json:"account"`
	Balance   uint64    `json:"balance"`
}

// newAccount constructs a new account value for use.
func newAccount(accountID AccountID, balance uint64) Account {
	return Account{
		AccountID: accountID,
		Balance:   balance,
	}
}

// =============================================================================

// AccountID represents an anonymous, self generated account handle. It is
// the lowercase hex encoding of a SHA-256 digest.
type AccountID string

// NewAccountID draws 32 bytes from the specified random source and returns
// the hex-encoded SHA-256 digest of those bytes.
func NewAccountID(r io.Reader) (AccountID, error) {
	var seed [32]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return "", fmt.Errorf("reading random seed: %w", err)
	}

	digest := sha256.Sum256(seed[:])
	return AccountID(common.Bytes2Hex(digest[:])), nil
}

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	const digestLength = 32

	if len(a) != 2*digestLength {
		return false
	}

	for _, c := range []byte(a) {
		if !isLowerHexCharacter(c) {
			return false
		}
	}

	return true
}

// String implements the Stringer interface.
func (a AccountID) String() string {
	return string(a)
}

// Short returns the first characters of the account for logging.
func (a AccountID) Short() string {
	if len(a) <= 8 {
		return string(a)
	}
	return string(a[:8])
}

// =============================================================================

// isLowerHexCharacter returns bool of c being a valid lowercase hexadecimal.
func isLowerHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f')
}

// byAccount provides sorting support by the account id value.
type byAccount []Account

// Len returns the number of accounts in the list.
func (ba byAccount) Len() int {
	return len(ba)
}

// Less helps to sort the list by account id in ascending order.
func (ba byAccount) Less(i, j int) bool {
	return ba[i].AccountID < ba[j].AccountID
}

// Swap moves accounts in the order of the account id value.
func (ba byAccount) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
