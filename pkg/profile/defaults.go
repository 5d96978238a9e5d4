package profile

// defaultSubjects are the subjects a synthesized profile always covers.
var defaultSubjects = []string{"math", "ela"}

const (
	// defaultMasteryScore is the assumed mastery for a learner with no
	// assessment history.
	defaultMasteryScore = 0.55

	// defaultGradeOffset is subtracted from the current grade when
	// synthesizing assessed levels, so new learners start below grade and
	// build confidence.
	defaultGradeOffset = 2
)

// GradeBand maps a grade to its band label.
func GradeBand(grade int) string {
	switch {
	case grade <= 2:
		return "K_2"
	case grade <= 5:
		return "3_5"
	case grade <= 8:
		return "6_8"
	default:
		return "9_12"
	}
}

// SynthesizeDefaultProfile builds a fallback brain profile for a learner
// with no persisted one. Assessed levels default to the current grade minus
// two, floored at zero.
func SynthesizeDefaultProfile(learner Learner) BrainProfile {
	levels := make([]SubjectLevel, 0, len(defaultSubjects))
	for _, subject := range defaultSubjects {
		assessed := learner.CurrentGrade - defaultGradeOffset
		if assessed < 0 {
			assessed = 0
		}
		levels = append(levels, SubjectLevel{
			Subject:            subject,
			AssessedGradeLevel: assessed,
			MasteryScore:       defaultMasteryScore,
		})
	}

	return BrainProfile{
		LearnerID:     learner.ID,
		GradeBand:     GradeBand(learner.CurrentGrade),
		SubjectLevels: levels,
		Preferences: Preferences{
			PrefersShortSessions: true,
		},
	}
}
