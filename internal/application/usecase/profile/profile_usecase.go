package profile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/application/completion"
	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const photoFolder = "cv-studio/photos"

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	entityRepo  profile.EntityRepository
	uploader    service.Uploader
	logger      logger.Logger
}

// NewProfileUseCase builds the profile use cases. uploader may be nil, in
// which case photo uploads are rejected.
func NewProfileUseCase(repo profile.Repository, entityRepo profile.EntityRepository, uploader service.Uploader, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		entityRepo:  entityRepo,
		uploader:    uploader,
		logger:      log,
	}
}

type GetProfileInput struct {
	OwnerID uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &GetProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	OwnerID     uuid.UUID
	FirstName   string
	LastName    string
	Headline    string
	Summary     string
	Email       string
	Phone       string
	Location    string
	LinkedInURL string
	GitHubURL   string
	Languages   []profile.LanguageSkill
	Motivation  profile.MotivationVision
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteUpdateProfile replaces the personal information of the profile. The
// photo is only changed through ExecuteUploadPhoto.
func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	current, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}

	languages := input.Languages
	if languages == nil {
		languages = []profile.LanguageSkill{}
	}
	p := &profile.Profile{
		OwnerID:     input.OwnerID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Headline:    input.Headline,
		Summary:     input.Summary,
		Email:       input.Email,
		Phone:       input.Phone,
		Location:    input.Location,
		LinkedInURL: input.LinkedInURL,
		GitHubURL:   input.GitHubURL,
		PhotoURL:    current.PhotoURL,
		Languages:   languages,
		Motivation:  input.Motivation,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return &UpdateProfileOutput{Profile: p}, nil
}

type UploadPhotoInput struct {
	OwnerID uuid.UUID
	File    io.Reader
}

type UploadPhotoOutput struct {
	PhotoURL string
}

func (uc *ProfileUseCase) ExecuteUploadPhoto(ctx context.Context, input UploadPhotoInput) (*UploadPhotoOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadPhoto")
	defer span.End()

	if uc.uploader == nil {
		return nil, apperror.NewInvalidConfig("photo storage is not configured", nil)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}

	url, err := uc.uploader.Upload(ctx, input.File, photoFolder, input.OwnerID.String())
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload profile photo", err, zap.String("owner_id", input.OwnerID.String()))
		return nil, apperror.NewInternal("failed to upload photo", err)
	}

	p.PhotoURL = &url
	p.UpdatedAt = time.Now().UTC()
	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile photo failed: %w", err)
	}
	return &UploadPhotoOutput{PhotoURL: url}, nil
}

type CompletionInput struct {
	OwnerID uuid.UUID
}

func (uc *ProfileUseCase) ExecuteCompletion(ctx context.Context, input CompletionInput) (*completion.Result, error) {
	counts, err := uc.entityRepo.CountByKind(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("count entities failed: %w", err)
	}
	p, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	res := completion.Calculate(completion.Snapshot{Counts: counts, Motivation: p.Motivation})
	return &res, nil
}
