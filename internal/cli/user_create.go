package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go.leafdb/internal/auth"
)

// Later we could take the password from a prompt instead of argv
var userCreateCmd = &cobra.Command{
	Use:   "create-user <username> <password> <role>",
	Args:  cobra.ExactArgs(3),
	Short: "Create a user for the leafdb server",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password, roleStr := args[0], args[1], args[2]

		role, err := auth.ParseRole(roleStr)
		if err != nil {
			return err
		}

		fs, err := auth.NewFileStore(cfg.UserFile)
		if err != nil {
			return err
		}

		if _, err := fs.GetUser(username); err == nil {
			return fmt.Errorf("User %s already exists", username)
		} else if !errors.Is(err, auth.ErrUserNotFound) {
			return err
		}

		u, err := auth.NewUser(username, password, role)
		if err != nil {
			return err
		}

		if err := fs.SaveUser(u); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %s created\n", username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCreateCmd)
}
