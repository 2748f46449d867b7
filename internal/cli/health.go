package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"qrMenu/internal/shared/auth"
)

func newHealthCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the REST backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := rt.app.API.Health(cmd.Context())
			if err != nil {
				return err
			}
			return rt.print(status)
		},
	}
}

// newTokenCommand issues tokens for the preview server's notification stream.
func newTokenCommand(rt *runtime) *cobra.Command {
	var (
		subject    string
		restaurant string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a notification stream token signed with security.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer := auth.NewJWTValidator(rt.cfg.Security.JWTSecret)
			if !issuer.Enabled() {
				return fmt.Errorf("security.jwt_secret is not configured")
			}
			token, err := issuer.Issue(subject, restaurant, ttl)
			if err != nil {
				return err
			}
			out := map[string]string{"token": token, "subject": subject}
			if restaurant != "" {
				out["restaurantId"] = restaurant
			}
			if ttl > 0 {
				out["expiresAt"] = time.Now().Add(ttl).UTC().Format(time.RFC3339)
			}
			return rt.print(out)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "viewer the token identifies (required)")
	cmd.Flags().StringVar(&restaurant, "restaurant", "", "pin the token to one restaurant")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime; 0 never expires")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
