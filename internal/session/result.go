package session

import (
	"math"
	"time"

	"github.com/abhisek/learnquest/internal/achievement"
	"github.com/abhisek/learnquest/internal/challenge"
)

// Result is the persisted record of one finished session. It is created
// once and never modified.
type Result struct {
	ID                  int            `json:"Id"`
	Key                 string         `json:"key"`
	Subject             challenge.Type `json:"subject"`
	ChallengesCompleted int            `json:"challengesCompleted"`
	StarsEarned         int            `json:"starsEarned"`
	Accuracy            int            `json:"accuracy"`
	DurationSeconds     int            `json:"duration"`
	IsTimed             bool           `json:"isTimed"`
	AverageTimeSeconds  *float64       `json:"averageTime"`
	BonusStars          int            `json:"bonusStars"`
	Timestamp           time.Time      `json:"timestamp"`
}

// Duration returns the session length.
func (r Result) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// AchievementStats returns the evaluation input for this session.
func (r Result) AchievementStats() achievement.Stats {
	return achievement.Stats{
		AverageTime: r.AverageTimeSeconds,
		Accuracy:    r.Accuracy,
		IsTimed:     r.IsTimed,
	}
}

// accuracy returns round(correct/total*100).
func accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// averageSeconds returns the mean of times in seconds, or nil when empty.
func averageSeconds(times []time.Duration) *float64 {
	if len(times) == 0 {
		return nil
	}
	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	avg := sum.Seconds() / float64(len(times))
	return &avg
}

// fastestSeconds returns the smallest of times in seconds, or nil when empty.
func fastestSeconds(times []time.Duration) *float64 {
	if len(times) == 0 {
		return nil
	}
	min := times[0]
	for _, t := range times[1:] {
		if t < min {
			min = t
		}
	}
	s := min.Seconds()
	return &s
}
