package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.leafdb/internal/auth"
)

var userDelCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a leafdb server user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		fs, err := auth.NewFileStore(cfg.UserFile)
		if err != nil {
			return err
		}

		if err := fs.DeleteUser(username); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userDelCmd)
}
