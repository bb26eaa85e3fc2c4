package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the balance of an account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var account string
	if len(args) == 1 {
		account = args[0]
	}

	accountID, err := resolveAccount(account)
	if err != nil {
		return err
	}

	var bals struct {
		LatestBlock string `json:"latest_block"`
		Uncommitted int    `json:"uncommitted"`
		Balances    []struct {
			Balance uint64 `json:"balance"`
		} `json:"balances"`
	}

	if err := get(fmt.Sprintf("/v1/balances/list/%s", accountID), &bals); err != nil {
		return err
	}

	var balance uint64
	if len(bals.Balances) > 0 {
		balance = bals.Balances[0].Balance
	}

	fmt.Println("For Account:", accountID)
	fmt.Println("Balance:", humanize.Comma(int64(balance)))
	fmt.Println("Uncommitted:", bals.Uncommitted)

	return nil
}
