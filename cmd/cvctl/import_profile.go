package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khoahotran/cv-studio/adapters/persistence"
	profileUC "github.com/khoahotran/cv-studio/internal/application/usecase/profile"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

func newImportProfileCmd(c *cli) *cobra.Command {
	var ownerEmail, file string

	cmd := &cobra.Command{
		Use:   "import-profile",
		Short: "Import a master profile export for the owner",
		Long:  "Validates a JSON master profile export and appends its entities to the owner's master profile. Personal information is replaced when present.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read import file %s: %w", file, err)
			}

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
			out, err := uc.ExecuteImport(cmd.Context(), profileUC.ImportProfileInput{OwnerID: ownerID, Data: data})
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "profile updated: %t\n", out.ProfileUpdated)
			kinds := make([]string, 0, len(out.Imported))
			for k := range out.Imported {
				kinds = append(kinds, string(k))
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				fmt.Fprintf(w, "%s: %d\n", k, out.Imported[profile.EntityKind(k)])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerEmail, "owner-email", os.Getenv("OWNER_EMAIL"), "Owner email (default $OWNER_EMAIL)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSON export (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	return cmd
}

func resolveOwner(ctx context.Context, repos persistence.Repositories, email string) (uuid.UUID, error) {
	if email == "" {
		return uuid.Nil, fmt.Errorf("owner email is required (--owner-email or OWNER_EMAIL)")
	}
	u, err := repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot find owner %s: %w", email, err)
	}
	return u.ID, nil
}
