package cmd

import (
	"fmt"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create a new funded account on the node and save it",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	var act struct {
		Account database.AccountID `json:"account"`
		Balance uint64             `json:"balance"`
	}

	if err := post("/v1/accounts", nil, &act); err != nil {
		return err
	}

	path, err := saveAccount(act.Account)
	if err != nil {
		return err
	}

	fmt.Println("Account:", act.Account)
	fmt.Println("Balance:", act.Balance)
	fmt.Println("Saved to:", path)

	return nil
}
