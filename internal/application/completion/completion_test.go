package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

func TestCalculate_Empty(t *testing.T) {
	res := Calculate(Snapshot{})

	assert.Equal(t, Version, res.Version)
	assert.Equal(t, SectionCount, res.Total)
	require.Len(t, res.Sections, SectionCount)
	assert.Zero(t, res.Completed)
	assert.Zero(t, res.Percent)
}

func TestCalculate_ThreeOfNine(t *testing.T) {
	res := Calculate(Snapshot{
		Counts: map[profile.EntityKind]int{
			profile.KindWorkExperience: 4,
			profile.KindSkillCategory:  1,
		},
		Motivation: profile.MotivationVision{CareerGoals: "lead a platform team"},
	})

	assert.Equal(t, 3, res.Completed)
	assert.Equal(t, 33, res.Percent)

	byName := make(map[Section]SectionStatus)
	for _, s := range res.Sections {
		byName[s.Section] = s
	}
	assert.Equal(t, 4, byName[SectionWorkExperience].Count)
	assert.True(t, byName[SectionMotivationVision].IsComplete)
	assert.False(t, byName[SectionEducation].IsComplete)
}

func TestCalculate_MotivationOnlyCountsTrackedFields(t *testing.T) {
	res := Calculate(Snapshot{Motivation: profile.MotivationVision{Vision: "   ", Motivation: "coffee"}})
	assert.Zero(t, res.Completed)
}

func TestCalculate_IgnoresUnscoredKinds(t *testing.T) {
	res := Calculate(Snapshot{Counts: map[profile.EntityKind]int{"unknown": 10}})
	assert.Zero(t, res.Completed)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0))
	assert.Equal(t, 11, Percent(1))
	assert.Equal(t, 56, Percent(5))
	assert.Equal(t, 67, Percent(6))
	assert.Equal(t, 100, Percent(SectionCount))
}
