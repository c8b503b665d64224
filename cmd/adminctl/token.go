package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		roles  []string
		admin  bool
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development identity token",
		Long: "Signs an access token with the configured JWT secret. " +
			"Production identities come from the credential service; this is for local use.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, userID, roles, admin, ttl)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Subject user id (random when empty)")
	cmd.Flags().StringSliceVarP(&roles, "role", "r", nil, "Role facet: business_owner or accessibility_expert (repeatable)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the administrative flag")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}

func runToken(cmd *cobra.Command, userID string, roles []string, admin bool, ttl time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := uuid.New()
	if userID != "" {
		if id, err = uuid.Parse(userID); err != nil {
			return fmt.Errorf("invalid --user %q: %w", userID, err)
		}
	}
	for _, r := range roles {
		if !access.Role(r).IsValid() {
			return fmt.Errorf("unknown role %q", r)
		}
	}
	if ttl <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer).
		GenerateAccessToken(id.String(), roles, admin, ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
