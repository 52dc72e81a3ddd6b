package challengegen

import "github.com/abhisek/learnquest/internal/llm"

// BatchSchema is the JSON schema the LLM must answer with.
var BatchSchema = &llm.Schema{
	Name:        "challenge-batch",
	Description: "A batch of multiple-choice learning challenges for young children",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"challenges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The prompt shown to the child, in plain text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "3 or 4 distinct answer options",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "Exactly the text of the correct option",
						},
						"story": map[string]any{
							"type":        "string",
							"description": "A short story for story-mode challenges, otherwise empty",
						},
						"target_word": map[string]any{
							"type":        "string",
							"description": "The word being built or matched for word and phonics modes, otherwise empty",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "story", "target_word"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"challenges"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Challenges []challengeOutput `json:"challenges"`
}

type challengeOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Story         string   `json:"story"`
	TargetWord    string   `json:"target_word"`
}
