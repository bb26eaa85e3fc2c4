package database_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Accounts used across the tests.
const (
	kennedy = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"
	pavel   = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"
	ceasar  = "ffeeddccbbaa99887766554433221100ffeeddccbbaa99887766554433221100"
)

func ev(v string, args ...any) {}

// =============================================================================

func Test_Transactions(t *testing.T) {
	type table struct {
		name     string
		balances map[string]uint64
		txs      []database.Tx
		errs     []error
		final    map[database.AccountID]uint64
	}

	tt := []table{
		{
			name:     "basic",
			balances: map[string]uint64{kennedy: 1000, pavel: 0},
			txs: []database.Tx{
				database.NewTx(kennedy, pavel, 100),
				database.NewTx(kennedy, ceasar, 250),
			},
			errs: []error{nil, nil},
			final: map[database.AccountID]uint64{
				kennedy: 650,
				pavel:   100,
				ceasar:  250,
			},
		},
		{
			name:     "insufficient",
			balances: map[string]uint64{kennedy: 50, pavel: 10},
			txs: []database.Tx{
				database.NewTx(kennedy, pavel, 51),
				database.NewTx(ceasar, pavel, 1),
				database.NewTx(kennedy, pavel, 50),
			},
			errs: []error{database.ErrInsufficientFunds, database.ErrUnknownAccount, nil},
			final: map[database.AccountID]uint64{
				kennedy: 0,
				pavel:   60,
			},
		},
		{
			name:     "overflow",
			balances: map[string]uint64{kennedy: math.MaxUint64, pavel: 10},
			txs: []database.Tx{
				database.NewTx(kennedy, pavel, math.MaxUint64),
				database.NewTx(kennedy, pavel, math.MaxUint64-10),
				database.NewTx(kennedy, kennedy, 5),
			},
			errs: []error{database.ErrBalanceOverflow, nil, nil},
			final: map[database.AccountID]uint64{
				kennedy: 10,
				pavel:   math.MaxUint64,
			},
		},
	}

	t.Log("Given the need to validate the transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					db, err := database.New(genesis.Genesis{Balances: tst.balances})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to open database: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to open database.", success, testID)

					for i, tx := range tst.txs {
						err := db.ApplyTransaction(tx)
						if !errors.Is(err, tst.errs[i]) {
							t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
							t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.errs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get the expected result applying tx[%s].", failed, testID, tx)
						}
						t.Logf("\t%s\tTest %d:\tShould get the expected result applying tx[%s].", success, testID, tx)
					}

					accounts := db.CopyAccounts()
					if len(accounts) != len(tst.final) {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, len(accounts))
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, len(tst.final))
						t.Fatalf("\t%s\tTest %d:\tShould have the right number of accounts.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have the right number of accounts.", success, testID)

					for _, account := range accounts {
						finalValue, exists := tst.final[account.AccountID]
						if !exists {
							t.Errorf("\t%s\tTest %d:\tShould have account %s in balances.", failed, testID, account.AccountID.Short())
							continue
						}

						if finalValue != account.Balance {
							t.Errorf("\t%s\tTest %d:\tShould have correct balances for %s.", failed, testID, account.AccountID.Short())
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, account.Balance)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, finalValue)
							continue
						}
						t.Logf("\t%s\tTest %d:\tShould have correct balances for %s.", success, testID, account.AccountID.Short())
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ApplyBlock(t *testing.T) {
	t.Log("Given the need to apply the transactions of a block all or nothing.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the second transaction of a block can't be applied.", testID)
		{
			db, err := database.New(genesis.Genesis{Balances: map[string]uint64{kennedy: 100, pavel: 10}})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open database: %v", failed, testID, err)
			}

			block := database.Block{
				Number:        1,
				PrevBlockHash: database.GenesisHash,
				Trans: []database.Tx{
					database.NewTx(kennedy, pavel, 60),
					database.NewTx(pavel, ceasar, 500),
				},
			}

			if err := db.ApplyBlock(block); !errors.Is(err, database.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block with insufficient funds: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with insufficient funds.", success, testID)

			if bal := db.Balance(kennedy); bal != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould not apply the first transaction: got %d", failed, testID, bal)
			}
			if bal := db.Balance(pavel); bal != 10 {
				t.Fatalf("\t%s\tTest %d:\tShould not credit the receiver: got %d", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould not apply any transaction.", success, testID)

			if n := len(db.CopyChain()); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not extend the chain: got %d blocks", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould not extend the chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a transaction of a block overflows the receiver.", testID)
		{
			db, err := database.New(genesis.Genesis{Balances: map[string]uint64{kennedy: 100, pavel: math.MaxUint64 - 50}})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open database: %v", failed, testID, err)
			}

			block := database.Block{
				Number:        1,
				PrevBlockHash: database.GenesisHash,
				Trans: []database.Tx{
					database.NewTx(kennedy, ceasar, 20),
					database.NewTx(kennedy, pavel, 60),
				},
			}

			if err := db.ApplyBlock(block); !errors.Is(err, database.ErrBalanceOverflow) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block with an overflow: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with an overflow.", success, testID)

			if bal := db.Balance(kennedy); bal != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould not debit the sender: got %d", failed, testID, bal)
			}
			if bal := db.Balance(pavel); bal != math.MaxUint64-50 {
				t.Fatalf("\t%s\tTest %d:\tShould not wrap the receiver: got %d", failed, testID, bal)
			}
			if _, err := db.Query(ceasar); !errors.Is(err, database.ErrUnknownAccount) {
				t.Fatalf("\t%s\tTest %d:\tShould not create the first receiver: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not apply any transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen every transaction of a block can be applied.", testID)
		{
			db, err := database.New(genesis.Genesis{Balances: map[string]uint64{kennedy: 100}})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open database: %v", failed, testID, err)
			}

			block := database.Block{
				Number:        1,
				PrevBlockHash: database.GenesisHash,
				Trans: []database.Tx{
					database.NewTx(kennedy, pavel, 60),
					database.NewTx(pavel, ceasar, 25),
				},
			}

			if err := db.ApplyBlock(block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould apply the block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould apply the block.", success, testID)

			exp := map[database.AccountID]uint64{kennedy: 40, pavel: 35, ceasar: 25}
			for accountID, balance := range exp {
				if got := db.Balance(accountID); got != balance {
					t.Fatalf("\t%s\tTest %d:\tShould have balance %d for %s: got %d", failed, testID, balance, accountID.Short(), got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould have the right balances.", success, testID)

			if latest := db.LatestBlock(); latest.Number != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have block 1 as the tip: got %d", failed, testID, latest.Number)
			}
			t.Logf("\t%s\tTest %d:\tShould have block 1 as the tip.", success, testID)
		}
	}
}

func Test_AccountID(t *testing.T) {
	t.Log("Given the need to generate account ids.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen using a deterministic random source.", testID)
		{
			seed := bytes.Repeat([]byte{7}, 32)

			accountID, err := database.NewAccountID(bytes.NewReader(seed))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate an account id: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to generate an account id.", success, testID)

			digest := sha256.Sum256(seed)
			exp := hex.EncodeToString(digest[:])
			if string(accountID) != exp {
				t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, accountID)
				t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
				t.Fatalf("\t%s\tTest %d:\tShould be the hex digest of the seed.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be the hex digest of the seed.", success, testID)

			if !accountID.IsAccountID() {
				t.Fatalf("\t%s\tTest %d:\tShould be a 64 character lowercase hex id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be a 64 character lowercase hex id.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the random source is exhausted.", testID)
		{
			if _, err := database.NewAccountID(bytes.NewReader([]byte{1, 2, 3})); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to generate an account id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to generate an account id.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen validating account formats.", testID)
		{
			bad := []string{"", "abc", strings.ToUpper(kennedy), "0x" + kennedy[2:], kennedy + "00"}
			for _, s := range bad {
				if _, err := database.ToAccountID(s); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject account %q.", failed, testID, s)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould reject badly formatted accounts.", success, testID)

			if _, err := database.ToAccountID(kennedy); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept a valid account: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept a valid account.", success, testID)
		}
	}
}
