package cmd

import (
	"fmt"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the blocks of the node's chain",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) error {
	var blocks []database.Block
	if err := get("/v1/blocks/list", &blocks); err != nil {
		return err
	}

	for _, block := range blocks {
		fmt.Printf("Block %d: hash[%s] prev[%s] nonce[%d]\n", block.Number, block.Hash, block.PrevBlockHash, block.Nonce)
		for _, tx := range block.Trans {
			fmt.Printf("\t%s\n", tx)
		}
	}

	return nil
}
