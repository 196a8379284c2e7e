package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/user"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

type userRepo struct{ s *Store }

func (r *userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return &u, nil
}

func (r *userRepo) Upsert(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if existing, ok := r.s.users[key]; ok {
		u.ID = existing.ID
	} else if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.s.users[key] = *u
	return nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) GetByUserID(_ context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[ownerID]
	if !ok {
		return &profile.Profile{OwnerID: ownerID, Languages: []profile.LanguageSkill{}}, nil
	}
	p.Languages = slices.Clone(p.Languages)
	return &p, nil
}

func (r *profileRepo) Upsert(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	c.Languages = slices.Clone(p.Languages)
	r.s.profiles[p.OwnerID] = c
	return nil
}

type entityRepo struct{ s *Store }

func cloneRecord(rec profile.Record) profile.Record {
	rec.Payload = append(json.RawMessage(nil), rec.Payload...)
	if rec.DisplayOrder != nil {
		v := *rec.DisplayOrder
		rec.DisplayOrder = &v
	}
	return rec
}

func (r *entityRepo) ListByKind(_ context.Context, ownerID uuid.UUID, kind profile.EntityKind) ([]profile.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]profile.Record, 0)
	for _, id := range r.s.entitySeq {
		rec, ok := r.s.entities[id]
		if ok && rec.OwnerID == ownerID && rec.Kind == kind {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *entityRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*profile.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.entities[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, apperror.NewNotFound("entity", id.String())
	}
	c := cloneRecord(rec)
	return &c, nil
}

func (r *entityRepo) Save(_ context.Context, rec *profile.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entities[rec.ID]; ok {
		return apperror.NewConflict("entity", "id", rec.ID.String())
	}
	r.s.entities[rec.ID] = cloneRecord(*rec)
	r.s.entitySeq = append(r.s.entitySeq, rec.ID)
	return nil
}

func (r *entityRepo) Update(_ context.Context, rec *profile.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.entities[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return apperror.NewNotFound("entity", rec.ID.String())
	}
	if existing.Kind != rec.Kind {
		return apperror.NewInvalidInput(fmt.Sprintf("entity %s is a %s", rec.ID, existing.Kind), profile.ErrInvalidKind)
	}
	c := cloneRecord(*rec)
	c.CreatedAt = existing.CreatedAt
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	r.s.entities[rec.ID] = c
	return nil
}

func (r *entityRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.entities[id]
	if !ok || rec.OwnerID != ownerID {
		return apperror.NewNotFound("entity", id.String())
	}
	delete(r.s.entities, id)
	r.s.entitySeq = slices.DeleteFunc(r.s.entitySeq, func(v uuid.UUID) bool { return v == id })
	return nil
}

func (r *entityRepo) CountByKind(_ context.Context, ownerID uuid.UUID) (map[profile.EntityKind]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[profile.EntityKind]int)
	for _, rec := range r.s.entities {
		if rec.OwnerID == ownerID {
			out[rec.Kind]++
		}
	}
	return out, nil
}
