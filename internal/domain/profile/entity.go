package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EntityKind string

const (
	KindWorkExperience EntityKind = "work_experience"
	KindEducation      EntityKind = "education"
	KindSkillCategory  EntityKind = "skill_category"
	KindKeyCompetence  EntityKind = "key_competence"
	KindProject        EntityKind = "project"
	KindCertification  EntityKind = "certification"
	KindReference      EntityKind = "reference"
	KindHighlight      EntityKind = "highlight"
)

// Kinds lists every master entity kind in a fixed order.
var Kinds = []EntityKind{
	KindWorkExperience,
	KindEducation,
	KindSkillCategory,
	KindKeyCompetence,
	KindProject,
	KindCertification,
	KindReference,
	KindHighlight,
}

var ErrInvalidKind = errors.New("invalid entity kind")

func ParseKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

func (k EntityKind) Valid() bool {
	switch k {
	case KindWorkExperience, KindEducation, KindSkillCategory, KindKeyCompetence,
		KindProject, KindCertification, KindReference, KindHighlight:
		return true
	}
	return false
}

// Selectable reports whether documents can carry selection rows for the kind.
// Highlights only feed profile completion.
func (k EntityKind) Selectable() bool {
	return k.Valid() && k != KindHighlight
}

// Date is a calendar date serialized as "2006-01-02". "2006-01" is accepted on input.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s = strings.TrimSpace(s); s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.DateOnly, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Meta is the envelope shared by all master entities.
type Meta struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	DisplayOrder *int      `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *Meta) Base() *Meta { return m }

// Entity is implemented by every master entity kind.
type Entity interface {
	Kind() EntityKind
	Base() *Meta
	Validate() error
}

type WorkExperience struct {
	Meta
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   Date     `json:"start_date"`
	EndDate     *Date    `json:"end_date"`
	Current     bool     `json:"current"`
	Description *string  `json:"description"`
	Bullets     []string `json:"bullets"`
}

func (*WorkExperience) Kind() EntityKind { return KindWorkExperience }

func (w *WorkExperience) Validate() error {
	if strings.TrimSpace(w.Company) == "" || strings.TrimSpace(w.Position) == "" {
		return errors.New("company and position are required")
	}
	if w.Current && w.EndDate != nil {
		return errors.New("a current position cannot have an end date")
	}
	if w.EndDate != nil && !w.StartDate.IsZero() && w.EndDate.Before(w.StartDate.Time) {
		return errors.New("end date is before start date")
	}
	return nil
}

type Education struct {
	Meta
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"field_of_study"`
	StartDate    Date    `json:"start_date"`
	EndDate      *Date   `json:"end_date"`
	Description  *string `json:"description"`
}

func (*Education) Kind() EntityKind { return KindEducation }

func (e *Education) Validate() error {
	if strings.TrimSpace(e.Institution) == "" {
		return errors.New("institution is required")
	}
	return nil
}

type SkillCategory struct {
	Meta
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

func (*SkillCategory) Kind() EntityKind { return KindSkillCategory }

func (s *SkillCategory) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type KeyCompetence struct {
	Meta
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (*KeyCompetence) Kind() EntityKind { return KindKeyCompetence }

func (k *KeyCompetence) Validate() error {
	if strings.TrimSpace(k.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

type Project struct {
	Meta
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Description  *string  `json:"description"`
	URL          string   `json:"url"`
	Technologies []string `json:"technologies"`
	StartDate    *Date    `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
}

func (*Project) Kind() EntityKind { return KindProject }

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type Certification struct {
	Meta
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	IssueDate     *Date  `json:"issue_date"`
	ExpiryDate    *Date  `json:"expiry_date"`
	CredentialURL string `json:"credential_url"`
}

func (*Certification) Kind() EntityKind { return KindCertification }

func (c *Certification) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type Reference struct {
	Meta
	Name         string `json:"name"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Relationship string `json:"relationship"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

func (*Reference) Kind() EntityKind { return KindReference }

func (r *Reference) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type Highlight struct {
	Meta
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (*Highlight) Kind() EntityKind { return KindHighlight }

func (h *Highlight) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// New returns an empty entity of the given kind.
func New(kind EntityKind) (Entity, error) {
	switch kind {
	case KindWorkExperience:
		return &WorkExperience{}, nil
	case KindEducation:
		return &Education{}, nil
	case KindSkillCategory:
		return &SkillCategory{}, nil
	case KindKeyCompetence:
		return &KeyCompetence{}, nil
	case KindProject:
		return &Project{}, nil
	case KindCertification:
		return &Certification{}, nil
	case KindReference:
		return &Reference{}, nil
	case KindHighlight:
		return &Highlight{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// Record is the storage form of an entity: the envelope plus a JSON payload
// holding the kind-specific fields.
type Record struct {
	Meta
	Kind    EntityKind      `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// ToRecord serializes an entity for storage.
func ToRecord(e Entity) (Record, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s: %w", e.Kind(), err)
	}
	return Record{Meta: *e.Base(), Kind: e.Kind(), Payload: payload}, nil
}

// Entity rebuilds the typed entity behind a record when the kind is only
// known at runtime.
func (r Record) Entity() (Entity, error) {
	e, err := New(r.Kind)
	if err != nil {
		return nil, err
	}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, e); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", r.Kind, r.ID, err)
		}
	}
	*e.Base() = r.Meta
	return e, nil
}

// Decode rebuilds a typed entity from its record. The envelope always wins
// over whatever the payload carries for the same fields.
func Decode[T any, PT interface {
	*T
	Entity
}](rec Record) (*T, error) {
	var v T
	pt := PT(&v)
	if pt.Kind() != rec.Kind {
		return nil, fmt.Errorf("%w: record is %s, want %s", ErrInvalidKind, rec.Kind, pt.Kind())
	}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, pt); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", rec.Kind, rec.ID, err)
		}
	}
	*pt.Base() = rec.Meta
	return &v, nil
}

// DecodeAll decodes records of one kind, preserving order.
func DecodeAll[T any, PT interface {
	*T
	Entity
}](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := Decode[T, PT](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// EntityRepository is the master profile store. Lists return entities in
// insertion order.
type EntityRepository interface {
	ListByKind(ctx context.Context, ownerID uuid.UUID, kind EntityKind) ([]Record, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountByKind(ctx context.Context, ownerID uuid.UUID) (map[EntityKind]int, error)
}
