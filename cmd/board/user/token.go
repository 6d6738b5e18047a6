package user

import (
	"time"

	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/jwk"
	"github.com/spf13/cobra"
)

func init() {
	var expiry time.Duration
	// cmd is a command that generates an access token for a user.
	cmd := &cobra.Command{
		Use:   "token USERNAME",
		Short: "Generate an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			be := backend.FromContext(ctx)
			kp, err := jwk.NewPair(cfg)
			if err != nil {
				return err
			}

			u, err := be.User(ctx, args[0])
			if err != nil {
				return err
			}

			d := cfg.Auth.TokenExpiry
			if expiry > 0 {
				d = expiry
			}

			j, err := kp.NewToken(u, cfg.HTTP.PublicURL, d)
			if err != nil {
				return err
			}

			cmd.Println(j)
			return nil
		},
	}

	cmd.Flags().DurationVarP(&expiry, "expiry", "e", 0, "token lifetime, defaults to auth.token_expiry")
	Command.AddCommand(cmd)
}
