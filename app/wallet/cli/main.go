package main

import "github.com/ardanlabs/floodchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
