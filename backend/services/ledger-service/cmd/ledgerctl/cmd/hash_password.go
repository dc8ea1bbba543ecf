package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"parkledger/backend/services/ledger-service/internal/password"
)

func newHashPasswordCmd() *cobra.Command {
	var cost int

	hashCmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for auth.adminPasswordHash",
		Long: `Print a bcrypt hash suitable for auth.adminPasswordHash.
The password is read from stdin when not given as an argument.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plain string
			if len(args) == 1 {
				plain = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password on stdin")
				}
				plain = strings.TrimRight(line, "\r\n")
			}
			hash, err := password.NewBcryptHasher(cost).Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	hashCmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")
	return hashCmd
}
