package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendDifficulty_WeakestSubjectFirst(t *testing.T) {
	profile := BrainProfile{
		LearnerID: "L1",
		SubjectLevels: []SubjectLevel{
			{Subject: "math", AssessedGradeLevel: 6, MasteryScore: 0.8},
			{Subject: "ela", AssessedGradeLevel: 5, MasteryScore: 0.3},
			{Subject: "science", AssessedGradeLevel: 6, MasteryScore: 0.55},
		},
	}

	recs := RecommendDifficulty(profile)
	require.Len(t, recs, 3)

	assert.Equal(t, "ela", recs[0].Subject)
	assert.Equal(t, "foundational", recs[0].RecommendedDifficulty)
	assert.Equal(t, "mastery 0.30 at assessed grade level 5", recs[0].Rationale)

	assert.Equal(t, "science", recs[1].Subject)
	assert.Equal(t, "supportive", recs[1].RecommendedDifficulty)

	assert.Equal(t, "math", recs[2].Subject)
	assert.Equal(t, "stretch", recs[2].RecommendedDifficulty)
}

func TestRecommendDifficulty_EmptyProfile(t *testing.T) {
	assert.Nil(t, RecommendDifficulty(BrainProfile{}))
}

func TestRecommendDifficulty_DoesNotReorderInput(t *testing.T) {
	profile := BrainProfile{
		SubjectLevels: []SubjectLevel{
			{Subject: "math", MasteryScore: 0.9},
			{Subject: "ela", MasteryScore: 0.1},
		},
	}

	_ = RecommendDifficulty(profile)

	assert.Equal(t, "math", profile.SubjectLevels[0].Subject)
	assert.Equal(t, "ela", profile.SubjectLevels[1].Subject)
}

func TestDifficultyFor_Boundaries(t *testing.T) {
	tests := []struct {
		mastery float64
		want    string
	}{
		{0.0, "foundational"},
		{0.39, "foundational"},
		{0.4, "supportive"},
		{0.69, "supportive"},
		{0.7, "stretch"},
		{1.0, "stretch"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, difficultyFor(tt.mastery), "mastery %.2f", tt.mastery)
	}
}
