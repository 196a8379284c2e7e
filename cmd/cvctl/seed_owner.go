package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khoahotran/cv-studio/internal/domain/user"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/auth"
)

func newSeedOwnerCmd(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed-owner",
		Short: "Create the owner account or reset its password",
		Long:  "Creates the single owner account. When the email already exists only the password is replaced, so the owner id and everything it owns are kept.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("email and password are required (flags or OWNER_EMAIL / OWNER_PASSWORD)")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("cannot hash password: %w", err)
			}

			repos, closeRepos, err := c.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot open storage: %w", err)
			}
			defer closeRepos()

			owner := &user.User{ID: uuid.New(), Email: email}
			existing, err := repos.Users.FindByEmail(cmd.Context(), email)
			switch {
			case err == nil:
				owner = existing
			case !errors.Is(err, apperror.ErrNotFound):
				return fmt.Errorf("cannot look up owner: %w", err)
			}
			owner.PasswordHash = hash

			if err := repos.Users.Upsert(cmd.Context(), owner); err != nil {
				return fmt.Errorf("cannot save owner: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "owner %s ready (id %s)\n", owner.Email, owner.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", os.Getenv("OWNER_EMAIL"), "Owner email (default $OWNER_EMAIL)")
	cmd.Flags().StringVar(&password, "password", os.Getenv("OWNER_PASSWORD"), "Owner password (default $OWNER_PASSWORD)")
	return cmd
}
