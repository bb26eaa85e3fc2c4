package validate_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/floodchain/business/sys/validate"
)

type newTx struct {
	From   string `json:"from" validate:"required,account"`
	To     string `json:"to" validate:"required,account"`
	Amount uint64 `json:"amount" validate:"required"`
}

func TestCheck(t *testing.T) {
	account := strings.Repeat("ab", 32)

	if err := validate.Check(newTx{From: account, To: account, Amount: 1}); err != nil {
		t.Fatalf("Should accept a valid model: %v", err)
	}

	err := validate.Check(newTx{From: "nope", To: account})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should return field errors: %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if len(fields) != 2 {
		t.Fatalf("Should flag from and amount: %v", fields)
	}

	if !strings.Contains(fields["from"], "account") || fields["amount"] == "" {
		t.Fatalf("Should use json names and readable messages: %v", fields)
	}
}
