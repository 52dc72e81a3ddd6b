package challengegen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated challenge; the first
	// failure rejects it.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions limits how many existing questions are listed in
	// the prompt as "do not repeat".
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:         2048,
		Temperature:       0.7,
		MaxPriorQuestions: 15,
	}
}
