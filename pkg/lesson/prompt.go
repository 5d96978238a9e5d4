package lesson

import (
	"fmt"
	"strings"
)

// systemInstruction establishes persona and audience for generated lesson
// content. The tone constraints matter: generated text reaches
// neurodivergent learners directly.
const systemInstruction = `You are a calm, patient tutor writing for neurodivergent K-12 learners.
Write in short, concrete sentences. Avoid idioms, sarcasm, and time pressure.
Never mention deadlines, grades, or comparison with other students.
Begin your answer with a single line starting with "Objective:" that states
what the learner will be able to do after this lesson.`

// buildPrompt interpolates the request and resolved context into the
// generation prompt for tier 2 of the fallback chain.
func buildPrompt(req PlanRequest, grade int, curriculumLabel, difficultySummary string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a short lesson objective and outline for a grade %d learner.\n", grade)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	if req.Domain != "" {
		fmt.Fprintf(&b, "Domain: %s\n", req.Domain)
	}
	fmt.Fprintf(&b, "Region: %s\n", req.Region)
	fmt.Fprintf(&b, "Curriculum: %s\n", curriculumLabel)
	fmt.Fprintf(&b, "Difficulty guidance: %s\n", difficultySummary)
	b.WriteString("Constraints: calm tone, at most 120 words, no lists of more than four items, ")
	b.WriteString("no content that could frighten or shame a learner.\n")

	return b.String()
}
