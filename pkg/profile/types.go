package profile

// Learner is the persisted learner record. Its absence is the one hard
// failure in the planning chain; everything else degrades to defaults.
type Learner struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenant_id"`
	DisplayName  string `json:"display_name"`
	Region       string `json:"region"`
	CurrentGrade int    `json:"current_grade"`
}

// BrainProfile is a learner's derived academic and neurodiversity model
// used to personalize content.
type BrainProfile struct {
	LearnerID           string         `json:"learner_id"`
	GradeBand           string         `json:"grade_band"`
	SubjectLevels       []SubjectLevel `json:"subject_levels"`
	NeurodiversityFlags []string       `json:"neurodiversity_flags,omitempty"`
	Preferences         Preferences    `json:"preferences"`
}

// SubjectLevel records assessed standing in one subject.
type SubjectLevel struct {
	Subject            string  `json:"subject"`
	AssessedGradeLevel int     `json:"assessed_grade_level"`
	MasteryScore       float64 `json:"mastery_score"`
}

// Preferences holds learner presentation preferences.
type Preferences struct {
	PrefersShortSessions bool `json:"prefers_short_sessions"`
	PrefersVisualAids    bool `json:"prefers_visual_aids"`
	ReducedStimulation   bool `json:"reduced_stimulation"`
}

// SubjectLevelFor returns the level for the given subject, or nil when the
// profile has no entry for it.
func (p *BrainProfile) SubjectLevelFor(subject string) *SubjectLevel {
	for i := range p.SubjectLevels {
		if p.SubjectLevels[i].Subject == subject {
			return &p.SubjectLevels[i]
		}
	}
	return nil
}
