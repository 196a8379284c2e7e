package profile

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

//go:embed schema/profile_import.schema.json
var importSchema string

type importedProfile struct {
	FirstName   string                   `json:"first_name"`
	LastName    string                   `json:"last_name"`
	Headline    string                   `json:"headline"`
	Summary     string                   `json:"summary"`
	Email       string                   `json:"email"`
	Phone       string                   `json:"phone"`
	Location    string                   `json:"location"`
	LinkedInURL string                   `json:"linkedin_url"`
	GitHubURL   string                   `json:"github_url"`
	Languages   []profile.LanguageSkill  `json:"languages"`
	Motivation  profile.MotivationVision `json:"motivation"`
}

type ImportProfileInput struct {
	OwnerID uuid.UUID
	Data    []byte
}

type ImportProfileOutput struct {
	ProfileUpdated bool
	Imported       map[profile.EntityKind]int
}

// validateImport checks data against the import schema and reports every
// violation in one error.
func validateImport(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(importSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return apperror.NewInvalidInput("import is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return apperror.NewInvalidInput(strings.Join(msgs, "; "), nil)
}

// ExecuteImport loads a master profile export. Entities are appended to the
// existing master profile and the personal information, when present, is
// replaced. Document selections are never touched, so existing documents
// keep their overrides and see new entities with default selection.
func (uc *ProfileUseCase) ExecuteImport(ctx context.Context, input ImportProfileInput) (*ImportProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ImportProfile")
	defer span.End()

	if err := validateImport(input.Data); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(input.Data, &raw); err != nil {
		return nil, apperror.NewInvalidInput("import is not a JSON object", err)
	}

	now := time.Now().UTC()
	records := make([]profile.Record, 0)
	out := &ImportProfileOutput{Imported: make(map[profile.EntityKind]int)}
	for _, kind := range profile.Kinds {
		body, ok := raw[string(kind)]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("%s must be a list", kind), err)
		}
		for i, item := range items {
			e, err := buildEntity(kind, item)
			if err != nil {
				return nil, err
			}
			order := e.Base().DisplayOrder
			*e.Base() = profile.Meta{
				ID:           uuid.New(),
				OwnerID:      input.OwnerID,
				DisplayOrder: order,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := e.Validate(); err != nil {
				return nil, apperror.NewInvalidInput(fmt.Sprintf("%s[%d]: %s", kind, i, err), err)
			}
			rec, err := profile.ToRecord(e)
			if err != nil {
				return nil, apperror.NewInternal("failed to encode entity", err)
			}
			records = append(records, rec)
		}
	}

	if body, ok := raw["profile"]; ok {
		var ip importedProfile
		if err := json.Unmarshal(body, &ip); err != nil {
			return nil, apperror.NewInvalidInput("malformed profile", err)
		}
		if _, err := uc.ExecuteUpdateProfile(ctx, UpdateProfileInput{
			OwnerID:     input.OwnerID,
			FirstName:   ip.FirstName,
			LastName:    ip.LastName,
			Headline:    ip.Headline,
			Summary:     ip.Summary,
			Email:       ip.Email,
			Phone:       ip.Phone,
			Location:    ip.Location,
			LinkedInURL: ip.LinkedInURL,
			GitHubURL:   ip.GitHubURL,
			Languages:   ip.Languages,
			Motivation:  ip.Motivation,
		}); err != nil {
			return nil, err
		}
		out.ProfileUpdated = true
	}

	for i := range records {
		if err := uc.entityRepo.Save(ctx, &records[i]); err != nil {
			span.RecordError(err)
			uc.logger.Error("Import stopped part way", err,
				zap.String("owner_id", input.OwnerID.String()),
				zap.Int("saved", i),
				zap.Int("total", len(records)))
			return nil, apperror.NewPartialWrite(fmt.Sprintf("saved %d of %d entities", i, len(records)), err)
		}
		out.Imported[records[i].Kind]++
	}

	span.SetAttributes(attribute.Int("entities", len(records)))
	uc.logger.Info("Profile imported",
		zap.String("owner_id", input.OwnerID.String()),
		zap.Int("entities", len(records)))
	return out, nil
}
