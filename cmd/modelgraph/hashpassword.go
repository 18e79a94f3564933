package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/matsen/modelgraph/internal/gate"
)

var hashCost int

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	rootCmd.AddCommand(hashPasswordCmd)
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for password_hash",
	Long: `Read a password from the first line of stdin and print its bcrypt hash.

Put the hash in the config file as password_hash (or MODELGRAPH_PASSWORD_HASH)
to stop storing the password in plaintext.

Examples:
  echo 'correct horse' | modelgraph hash-password`,
	RunE: runHashPassword,
}

// HashResult is the response for the hash-password command.
type HashResult struct {
	Hash string `json:"hash"`
	Cost int    `json:"cost"`
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		exitWithError(ExitError, "reading password from stdin: %v", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		exitWithError(ExitError, "password must not be empty")
	}

	hash, err := gate.HashPassword(password, hashCost)
	if err != nil {
		exitWithError(ExitError, "hashing password: %v", err)
	}

	emit(HashResult{Hash: hash, Cost: hashCost}, func() { fmt.Println(hash) })
	return nil
}
