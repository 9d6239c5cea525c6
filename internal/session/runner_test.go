package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"bestfit/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsultant struct {
	reply string
	err   error
	got   *profile.Session
}

func (f *fakeConsultant) Consult(_ context.Context, answers profile.Session) (string, error) {
	f.got = &answers
	return f.reply, f.err
}

var fullInput = strings.Join([]string{
	"34", "Woman", " 140 ", "5'6\"", "8.5", "Narrow", "High", "Shins",
	"Trail Running", "Weekends", "Experienced", "Trail", "Yes", "Comfort",
}, "\n") + "\n"

func TestRun_Success(t *testing.T) {
	fc := &fakeConsultant{reply: "1. Premium: Hoka Speedgoat\n2. Value\n3. Budget"}
	var out bytes.Buffer
	r := &Runner{In: strings.NewReader(fullInput), Out: &out, Consultant: fc}

	require.NoError(t, r.Run(context.Background()))

	require.NotNil(t, fc.got)
	assert.Equal(t, profile.Session{
		Age: "34", Sex: "Woman", Weight: "140", Height: "5'6\"", ShoeSize: "8.5",
		FootShape: "Narrow", Arch: "High", Injury: "Shins", Activity: "Trail Running",
		Frequency: "Weekends", Experience: "Experienced", Terrain: "Trail",
		Waterproof: "Yes", Priority: "Comfort",
	}, *fc.got)

	s := out.String()
	assert.Contains(t, s, "Welcome to BEST FIT!")
	assert.Contains(t, s, "\nOptions: Hiking, Running, Trail Running")
	assert.Contains(t, s, "PLEASE BE PATIENT WHILE WE GATHER YOUR RESULTS...")
	assert.Contains(t, s, "HERE’S WHAT WE THINK ARE YOUR BEST CHOICES:\n\n1. Premium: Hoka Speedgoat\n2. Value\n3. Budget\n")
	assert.Contains(t, s, "ANSWERING A SHORT SURVEY.")
}

func TestRun_PromptOrder(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{In: strings.NewReader(fullInput), Out: &out, Consultant: &fakeConsultant{}}
	require.NoError(t, r.Run(context.Background()))

	s := out.String()
	last := -1
	for _, f := range profile.SessionFields {
		idx := strings.Index(s, f.Label+": ")
		require.GreaterOrEqual(t, idx, 0, "prompt %q missing", f.Label)
		assert.Greater(t, idx, last, "prompt %q out of order", f.Label)
		last = idx
	}
}

func TestRun_ConsultErrorIsPrintedNotReturned(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{
		In:         strings.NewReader(fullInput),
		Out:        &out,
		Consultant: &fakeConsultant{err: errors.New("rate limited")},
	}

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "An error occurred: rate limited")
	assert.NotContains(t, out.String(), "BEST CHOICES")
}

func TestCollect_EOFLeavesRestEmpty(t *testing.T) {
	r := &Runner{In: strings.NewReader("40\nMan\n"), Out: &bytes.Buffer{}}
	answers, err := r.Collect()
	require.NoError(t, err)
	assert.Equal(t, "40", answers.Age)
	assert.Equal(t, "Man", answers.Sex)
	assert.Empty(t, answers.Weight)
	assert.Empty(t, answers.Priority)
}
