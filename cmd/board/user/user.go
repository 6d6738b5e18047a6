package user

import (
	"github.com/charmbracelet/soft-board/cmd"
	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/spf13/cobra"
)

var (
	// Command returns the user subcommand.
	Command = &cobra.Command{
		Use:                "user",
		Aliases:            []string{"users"},
		Short:              "Manage users",
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
	}
)

func init() {
	userCreateCommand := &cobra.Command{
		Use:   "create USERNAME EMAIL",
		Short: "Create a new user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			u, err := be.CreateUser(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			cmd.Printf("Created user %s (%d)\n", u.Username(), u.ID())
			return nil
		},
	}

	userInfoCommand := &cobra.Command{
		Use:   "info USERNAME",
		Short: "Show information about a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			u, err := be.User(ctx, args[0])
			if err != nil {
				return err
			}

			cmd.Printf("ID: %d\n", u.ID())
			cmd.Printf("Username: %s\n", u.Username())
			cmd.Printf("Email: %s\n", u.Email())
			return nil
		},
	}

	Command.AddCommand(
		userCreateCommand,
		userInfoCommand,
	)
}
