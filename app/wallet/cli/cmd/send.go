package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send funds to another account",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Account to send from. Defaults to the saved account.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to send to.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	fromID, err := resolveAccount(from)
	if err != nil {
		return err
	}

	tx := struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
	}{
		From:   string(fromID),
		To:     to,
		Amount: amount,
	}

	var resp struct {
		Status string `json:"status"`
	}

	if err := post("/v1/tx/submit", tx, &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)

	return nil
}
