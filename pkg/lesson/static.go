package lesson

import "fmt"

// defaultObjective is the hand-authored tier-3 objective. It must read as
// reviewed-quality content on its own, because it is what a learner sees
// when every upstream service is down.
const defaultObjective = "Practice one core skill at your own pace, with a worked example to follow and time to reflect on what felt clear."

// staticBlocks returns the four fixed instructional blocks. Every plan
// carries exactly these blocks in this order; only the objective text above
// them varies by tier.
func staticBlocks(subject string) []Block {
	return []Block{
		{
			Order:              1,
			Type:               BlockCalmIntro,
			Text:               "Take a slow breath. Today's session is short, and you can pause at any time. There is nothing to finish in a hurry.",
			EstimatedMinutes:   1,
			AccessibilityNotes: "Read aloud available. No timer shown. Soft color palette.",
		},
		{
			Order:              2,
			Type:               BlockWorkedExample,
			Text:               fmt.Sprintf("Watch one %s problem solved step by step. Each step stays on screen until you choose to continue.", subject),
			EstimatedMinutes:   3,
			AccessibilityNotes: "Steps advance only on learner input. Dyslexia-friendly font option.",
		},
		{
			Order:              3,
			Type:               BlockGuidedPractice,
			Text:               "Now try a similar problem with hints. The first hint appears automatically; more are there if you want them.",
			EstimatedMinutes:   3,
			AccessibilityNotes: "Hints are optional and never counted. Incorrect attempts produce neutral feedback.",
		},
		{
			Order:              4,
			Type:               BlockReflectionPrompt,
			Text:               "Which step felt clearest to you? Pick one word for how this session felt. Your answer is just for you.",
			EstimatedMinutes:   2,
			AccessibilityNotes: "Emoji response option. Free-text never required.",
		},
	}
}
