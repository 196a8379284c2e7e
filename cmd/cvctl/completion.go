package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	profileUC "github.com/khoahotran/cv-studio/internal/application/usecase/profile"
)

func newCompletionCmd(c *cli) *cobra.Command {
	var ownerEmail string

	cmd := &cobra.Command{
		Use:   "completion-status",
		Short: "Print the owner's profile completion as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, closeRepos, err := c.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot open storage: %w", err)
			}
			defer closeRepos()

			ownerID, err := resolveOwner(cmd.Context(), repos, ownerEmail)
			if err != nil {
				return err
			}

			uc := profileUC.NewProfileUseCase(repos.Profiles, repos.Entities, nil, c.log)
			res, err := uc.ExecuteCompletion(cmd.Context(), profileUC.CompletionInput{OwnerID: ownerID})
			if err != nil {
				return fmt.Errorf("completion failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&ownerEmail, "owner-email", os.Getenv("OWNER_EMAIL"), "Owner email (default $OWNER_EMAIL)")
	return cmd
}
