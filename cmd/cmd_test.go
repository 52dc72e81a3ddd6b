package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/session"
	"github.com/abhisek/learnquest/internal/store"
)

func TestResolveSubject(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mode    string
		want    challenge.Type
		wantErr bool
	}{
		{name: "no subject", want: ""},
		{name: "math", args: []string{"math"}, want: challenge.TypeMath},
		{name: "reading", args: []string{"Reading"}, want: challenge.TypeReading},
		{name: "short sub-mode", args: []string{"story-mode"}, want: challenge.TypeStoryMode},
		{name: "mode alone", mode: "word-building", want: challenge.TypeWordBuilding},
		{name: "reading with mode", args: []string{"reading"}, mode: "phonics-rhyming", want: challenge.TypePhonicsRhyming},
		{name: "math with mode", args: []string{"math"}, mode: "story-mode", wantErr: true},
		{name: "mode is a subject", mode: "reading", wantErr: true},
		{name: "unknown", args: []string{"art"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSubject(tt.args, tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClearCollection(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemory()
	recs := []json.RawMessage{
		json.RawMessage(`{"subject":"math"}`),
		json.RawMessage(`{"subject":"reading"}`),
	}
	_, err := b.Create(ctx, store.Sessions, recs)
	require.NoError(t, err)

	n, err := clearCollection(ctx, b, store.Sessions)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := b.Fetch(ctx, store.Sessions, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, left)

	n, err = clearCollection(ctx, b, store.Sessions)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrintHelpers(t *testing.T) {
	avg := 4.5
	var buf bytes.Buffer

	printStats(&buf, progress.Progress{TotalStars: 42, MathLevel: 2, ReadingLevel: 1}, []session.Result{
		{Accuracy: 80, IsTimed: true},
		{Accuracy: 60},
	})
	out := buf.String()
	assert.Contains(t, out, "Total stars")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "2 (1 timed)")
	assert.Contains(t, out, "70%")

	buf.Reset()
	printHistory(&buf, []session.Result{{ID: 7, Subject: challenge.TypeMath, StarsEarned: 12, Accuracy: 80, IsTimed: true, AverageTimeSeconds: &avg}})
	assert.Contains(t, buf.String(), "4.5s")
	assert.Contains(t, buf.String(), "Math")

	buf.Reset()
	printHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No sessions")
}

// run executes the root command against a throwaway database.
func run(t *testing.T, db string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db, "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCommands_SeedProgressReset(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	db := filepath.Join(t.TempDir(), "learnquest.db")

	out := run(t, db, "seed")
	assert.Contains(t, out, "Seeded")
	assert.Contains(t, run(t, db, "seed"), "already seeded")

	out = run(t, db, "achievements")
	assert.Contains(t, out, "Speed Demon")
	assert.Contains(t, out, "locked")

	assert.Contains(t, run(t, db, "progress", "level", "math", "3"), "Math level set to 3")
	assert.Contains(t, run(t, db, "progress", "master", "addition"), "1 skills mastered")
	assert.Contains(t, run(t, db, "stats"), "Skills mastered")

	out = run(t, db, "reset", "--yes")
	assert.Contains(t, out, "Deleted 1 progress records.")

	out = run(t, db, "stats")
	assert.NotContains(t, out, "Skills mastered")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "learnquest")
}
