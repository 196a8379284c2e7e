package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2021-03"`), &d))
	assert.Equal(t, NewDate(2021, time.March, 1), d)

	require.NoError(t, json.Unmarshal([]byte(`"2021-03-15"`), &d))
	assert.Equal(t, NewDate(2021, time.March, 15), d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2021-03-15"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
	out, err = json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`"March 2021"`), &d))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("work_experience")
	require.NoError(t, err)
	assert.Equal(t, KindWorkExperience, k)

	_, err = ParseKind("hobby")
	assert.ErrorIs(t, err, ErrInvalidKind)

	assert.True(t, KindProject.Selectable())
	assert.False(t, KindHighlight.Selectable())
}

func TestWorkExperience_Validate(t *testing.T) {
	end := NewDate(2020, time.January, 1)
	cases := []struct {
		name string
		w    WorkExperience
		ok   bool
	}{
		{"complete", WorkExperience{Company: "Acme", Position: "Engineer", StartDate: NewDate(2019, time.May, 1), EndDate: &end}, true},
		{"missing company", WorkExperience{Position: "Engineer"}, false},
		{"current with end date", WorkExperience{Company: "Acme", Position: "Engineer", Current: true, EndDate: &end}, false},
		{"end before start", WorkExperience{Company: "Acme", Position: "Engineer", StartDate: NewDate(2021, time.May, 1), EndDate: &end}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	order := 2
	skill := &SkillCategory{
		Meta:   Meta{ID: uuid.New(), OwnerID: uuid.New(), DisplayOrder: &order},
		Name:   "Backend",
		Skills: []string{"Go", "PostgreSQL"},
	}
	rec, err := ToRecord(skill)
	require.NoError(t, err)
	assert.Equal(t, KindSkillCategory, rec.Kind)
	assert.Equal(t, skill.ID, rec.ID)

	// The envelope wins over the payload copy of the same fields.
	rec.DisplayOrder = nil
	got, err := Decode[SkillCategory](rec)
	require.NoError(t, err)
	assert.Nil(t, got.DisplayOrder)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Skills)

	e, err := rec.Entity()
	require.NoError(t, err)
	sc, ok := e.(*SkillCategory)
	require.True(t, ok)
	assert.Equal(t, "Backend", sc.Name)

	_, err = Decode[Project](rec)
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = Record{Kind: "hobby"}.Entity()
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestMotivationVision_HasContent(t *testing.T) {
	assert.False(t, MotivationVision{}.HasContent())
	assert.False(t, MotivationVision{Vision: "  ", Motivation: "only motivation"}.HasContent())
	assert.True(t, MotivationVision{CareerGoals: "lead a team"}.HasContent())
}
