package profile

import (
	"fmt"
	"sort"
)

// DifficultyRecommendation is one ranked difficulty suggestion for a subject.
type DifficultyRecommendation struct {
	Subject               string `json:"subject"`
	RecommendedDifficulty string `json:"recommended_difficulty"`
	Rationale             string `json:"rationale"`
}

// RecommendDifficulty derives a ranked list of difficulty recommendations
// from a brain profile, weakest subject first. A profile with no subject
// levels yields no recommendations.
func RecommendDifficulty(profile BrainProfile) []DifficultyRecommendation {
	if len(profile.SubjectLevels) == 0 {
		return nil
	}

	levels := make([]SubjectLevel, len(profile.SubjectLevels))
	copy(levels, profile.SubjectLevels)
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].MasteryScore < levels[j].MasteryScore
	})

	recs := make([]DifficultyRecommendation, 0, len(levels))
	for _, level := range levels {
		recs = append(recs, DifficultyRecommendation{
			Subject:               level.Subject,
			RecommendedDifficulty: difficultyFor(level.MasteryScore),
			Rationale: fmt.Sprintf("mastery %.2f at assessed grade level %d",
				level.MasteryScore, level.AssessedGradeLevel),
		})
	}
	return recs
}

func difficultyFor(mastery float64) string {
	switch {
	case mastery < 0.4:
		return "foundational"
	case mastery < 0.7:
		return "supportive"
	default:
		return "stretch"
	}
}
