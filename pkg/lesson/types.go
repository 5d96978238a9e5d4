package lesson

import "time"

// PlanRequest identifies who and what to plan a lesson for.
type PlanRequest struct {
	LearnerID string `json:"learnerId"`
	TenantID  string `json:"tenantId"`
	Subject   string `json:"subject"`
	Region    string `json:"region"`
	Domain    string `json:"domain,omitempty"`
}

// BlockType tags the role of one instructional block.
type BlockType string

const (
	BlockCalmIntro        BlockType = "calm_intro"
	BlockWorkedExample    BlockType = "worked_example"
	BlockGuidedPractice   BlockType = "guided_practice"
	BlockReflectionPrompt BlockType = "reflection_prompt"
)

// Block is one fully populated instructional block. Blocks are always
// present even when every upstream service fails.
type Block struct {
	Order              int       `json:"order"`
	Type               BlockType `json:"type"`
	Text               string    `json:"text"`
	EstimatedMinutes   int       `json:"estimated_minutes"`
	AccessibilityNotes string    `json:"accessibility_notes"`
}

// Plan is the renderable lesson plan returned to the caller. It has no
// optional structural fields; only the source of the objective text varies.
type Plan struct {
	ID        string    `json:"id"`
	LearnerID string    `json:"learner_id"`
	TenantID  string    `json:"tenant_id"`
	Subject   string    `json:"subject"`
	Region    string    `json:"region"`
	Domain    string    `json:"domain"`
	Title     string    `json:"title"`
	Objective string    `json:"objective"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"created_at"`
}
