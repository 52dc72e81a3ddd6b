package challengegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/learnquest/internal/challenge"
)

const systemPrompt = `You write short multiple-choice learning challenges for children aged 5 to 8.

Rules:
- Every challenge has 3 or 4 distinct options and exactly one correct answer.
- correct_answer must be copied exactly from the options.
- Use simple words and plain text. No markup.
- Math questions use small whole numbers written as "a + b" or "a - b".
- Distractors should reflect common mistakes, not random values.
- Only story-mode challenges have a story; keep it under 60 words.
- Word-building and phonics challenges set target_word to the word in focus.
- Do not repeat any question from the "already asked" list.`

// modeGuide describes each challenge type to the model.
var modeGuide = map[challenge.Type]string{
	challenge.TypeMath:            "Basic arithmetic: counting, addition and subtraction.",
	challenge.TypeReading:         "Word recognition: pick the word that matches a picture description or sentence.",
	challenge.TypePhonicsMatching: "Match a letter or sound to a word that starts with it.",
	challenge.TypePhonicsRhyming:  "Pick the word that rhymes with the target word.",
	challenge.TypeWordBuilding:    "Pick the missing letter that completes the target word (shown with an underscore).",
	challenge.TypeStoryMode:       "Read the short story and answer a comprehension question about it.",
}

func buildUserMessage(req Request, prior []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode: %s\n", req.Type.DisplayName())
	fmt.Fprintf(&b, "About this mode: %s\n", modeGuide[req.Type])
	if req.Skill != "" {
		fmt.Fprintf(&b, "Skill: %s\n", req.Skill)
	}
	fmt.Fprintf(&b, "Difficulty: %d of 5\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of challenges: %d\n", req.Count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))
	return b.String()
}

// buildDedup formats prior questions for the prompt, keeping the last max.
// Returns "None" if there are no prior questions.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// questionKey normalizes a question for duplicate detection.
func questionKey(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
