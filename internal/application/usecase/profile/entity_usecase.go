package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

// EntityUseCase manages master entities of every kind through one API.
type EntityUseCase struct {
	entityRepo profile.EntityRepository
}

func NewEntityUseCase(repo profile.EntityRepository) *EntityUseCase {
	return &EntityUseCase{entityRepo: repo}
}

type ListEntitiesInput struct {
	OwnerID uuid.UUID
	Kind    profile.EntityKind
}

func (uc *EntityUseCase) ExecuteList(ctx context.Context, input ListEntitiesInput) ([]profile.Entity, error) {
	if !input.Kind.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown entity kind %q", input.Kind), profile.ErrInvalidKind)
	}
	recs, err := uc.entityRepo.ListByKind(ctx, input.OwnerID, input.Kind)
	if err != nil {
		return nil, err
	}
	out := make([]profile.Entity, 0, len(recs))
	for _, rec := range recs {
		e, err := rec.Entity()
		if err != nil {
			return nil, apperror.NewInternal("failed to decode entity", err)
		}
		out = append(out, e)
	}
	return out, nil
}

type SaveEntityInput struct {
	OwnerID uuid.UUID
	Kind    profile.EntityKind
	// ID is only used by ExecuteUpdate.
	ID      uuid.UUID
	Payload json.RawMessage
}

// buildEntity decodes a client payload into a fresh entity of the kind. Any
// envelope fields in the payload are overwritten by the caller.
func buildEntity(kind profile.EntityKind, payload json.RawMessage) (profile.Entity, error) {
	e, err := profile.New(kind)
	if err != nil {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown entity kind %q", kind), err)
	}
	if err := json.Unmarshal(payload, e); err != nil {
		return nil, apperror.NewInvalidInput("malformed entity payload", err)
	}
	return e, nil
}

func (uc *EntityUseCase) ExecuteCreate(ctx context.Context, input SaveEntityInput) (profile.Entity, error) {
	e, err := buildEntity(input.Kind, input.Payload)
	if err != nil {
		return nil, err
	}
	order := e.Base().DisplayOrder
	now := time.Now().UTC()
	*e.Base() = profile.Meta{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		DisplayOrder: order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	rec, err := profile.ToRecord(e)
	if err != nil {
		return nil, apperror.NewInternal("failed to encode entity", err)
	}
	if err := uc.entityRepo.Save(ctx, &rec); err != nil {
		return nil, fmt.Errorf("save entity failed: %w", err)
	}
	return e, nil
}

// ExecuteUpdate replaces every field of the entity. Selections that point at
// it are left alone.
func (uc *EntityUseCase) ExecuteUpdate(ctx context.Context, input SaveEntityInput) (profile.Entity, error) {
	existing, err := uc.find(ctx, input.OwnerID, input.Kind, input.ID)
	if err != nil {
		return nil, err
	}
	e, err := buildEntity(input.Kind, input.Payload)
	if err != nil {
		return nil, err
	}
	order := e.Base().DisplayOrder
	*e.Base() = profile.Meta{
		ID:           existing.ID,
		OwnerID:      existing.OwnerID,
		DisplayOrder: order,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	rec, err := profile.ToRecord(e)
	if err != nil {
		return nil, apperror.NewInternal("failed to encode entity", err)
	}
	if err := uc.entityRepo.Update(ctx, &rec); err != nil {
		return nil, fmt.Errorf("update entity failed: %w", err)
	}
	return e, nil
}

type DeleteEntityInput struct {
	OwnerID uuid.UUID
	Kind    profile.EntityKind
	ID      uuid.UUID
}

// ExecuteDelete removes a master entity. Selection rows that referenced it
// become orphans and are skipped by composition.
func (uc *EntityUseCase) ExecuteDelete(ctx context.Context, input DeleteEntityInput) error {
	if _, err := uc.find(ctx, input.OwnerID, input.Kind, input.ID); err != nil {
		return err
	}
	if err := uc.entityRepo.Delete(ctx, input.OwnerID, input.ID); err != nil {
		return fmt.Errorf("delete entity failed: %w", err)
	}
	return nil
}

func (uc *EntityUseCase) find(ctx context.Context, ownerID uuid.UUID, kind profile.EntityKind, id uuid.UUID) (*profile.Record, error) {
	rec, err := uc.entityRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if rec.Kind != kind {
		return nil, apperror.NewNotFound(string(kind), id.String())
	}
	return rec, nil
}
