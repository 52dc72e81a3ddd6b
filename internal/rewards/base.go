package rewards

// Outcome is how a single challenge ended.
type Outcome int

const (
	// Unanswered covers both skipped challenges and expired timers.
	Unanswered Outcome = iota
	Wrong
	Correct
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "unanswered"
	}
}

// BaseStars returns the stars awarded for an outcome: 3 for a correct
// answer, 1 for trying, 0 otherwise.
func BaseStars(o Outcome) int {
	switch o {
	case Correct:
		return 3
	case Wrong:
		return 1
	default:
		return 0
	}
}

// OutcomeOf classifies an answer.
func OutcomeOf(answered, correct bool) Outcome {
	switch {
	case !answered:
		return Unanswered
	case correct:
		return Correct
	default:
		return Wrong
	}
}
