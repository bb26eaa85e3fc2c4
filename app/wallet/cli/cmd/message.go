package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var messageCmd = &cobra.Command{
	Use:   "message <text>",
	Short: "Broadcast a text message to the node's peers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  messageRun,
}

func init() {
	rootCmd.AddCommand(messageCmd)
}

func messageRun(cmd *cobra.Command, args []string) error {
	msg := struct {
		Message string `json:"message"`
	}{
		Message: strings.Join(args, " "),
	}

	var resp struct {
		Status string `json:"status"`
	}

	if err := post("/v1/messages", msg, &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)

	return nil
}
