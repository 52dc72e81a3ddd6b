package challengegen

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abhisek/learnquest/internal/challenge"
)

// MathCheckValidator recomputes simple "a op b" arithmetic found in math
// questions and rejects wrong answers. Questions without such an
// expression pass through.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

var arithRe = regexp.MustCompile(`(\d+)\s*([+\-*×x÷/])\s*(\d+)`)

func (v *MathCheckValidator) Validate(c *challenge.Challenge, _ Request) *ValidationError {
	if c.Type != challenge.TypeMath {
		return nil
	}
	want, ok := computeAnswer(c.Question)
	if !ok {
		return nil
	}
	got, err := strconv.Atoi(c.CorrectAnswer)
	if err != nil || got != want {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but answer is %q", want, c.CorrectAnswer),
		}
	}
	return nil
}

// computeAnswer evaluates the first whole-number expression in text.
// Divisions with a remainder are not computable.
func computeAnswer(text string) (int, bool) {
	m := arithRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[3])
	switch m[2] {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*", "×", "x":
		return a * b, true
	case "÷", "/":
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}
