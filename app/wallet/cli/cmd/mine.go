package cmd

import (
	"fmt"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var background bool

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block from its mempool",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().BoolVarP(&background, "background", "b", false, "Signal the node and return without waiting for the block.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	if background {
		var resp struct {
			Status string `json:"status"`
		}
		if err := post("/v1/mining/signal", nil, &resp); err != nil {
			return err
		}

		fmt.Println(resp.Status)
		return nil
	}

	var block database.Block
	if err := post("/v1/mining/mine", nil, &block); err != nil {
		return err
	}

	fmt.Printf("Block %d mined: hash[%s] nonce[%d] trans[%d]\n", block.Number, block.Hash, block.Nonce, len(block.Trans))

	return nil
}
