// Package cmd contains wallet app
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	url         string
	accountName string
	accountPath string
)

const (
	accountExtension = ".id"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "wallet", "Name of the saved account.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with saved accounts.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Simple wallet for a floodchain node",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getAccountPath() string {
	if !strings.HasSuffix(accountName, accountExtension) {
		accountName += accountExtension
	}

	return filepath.Join(accountPath, accountName)
}

// saveAccount writes the account id to the configured account file.
func saveAccount(accountID database.AccountID) (string, error) {
	path := getAccountPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(accountID+"\n"), 0600); err != nil {
		return "", err
	}

	return path, nil
}

// resolveAccount returns the account id provided or, when empty, the one
// saved in the configured account file.
func resolveAccount(account string) (database.AccountID, error) {
	if account == "" {
		data, err := os.ReadFile(getAccountPath())
		if err != nil {
			return "", errors.New("no account provided and no saved account found")
		}
		account = strings.TrimSpace(string(data))
	}

	accountID, err := database.ToAccountID(account)
	if err != nil {
		return "", fmt.Errorf("account %q: %w", account, err)
	}

	return accountID, nil
}
