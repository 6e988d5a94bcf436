package models

import (
	"fmt"
	"strings"
)

type Mood string

const (
	MoodDrained   Mood = "drained"
	MoodRestless  Mood = "restless"
	MoodHopeful   Mood = "hopeful"
	MoodScattered Mood = "scattered"
)

// Moods lists the closed set in picker order.
var Moods = []Mood{MoodDrained, MoodRestless, MoodHopeful, MoodScattered}

func (m Mood) String() string { return string(m) }

func (m Mood) IsValid() bool {
	switch m {
	case MoodDrained, MoodRestless, MoodHopeful, MoodScattered:
		return true
	}
	return false
}

// DisplayName returns the capitalized mood, e.g. "Hopeful".
func (m Mood) DisplayName() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

func ParseMood(input string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(input)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: unknown mood %q", ErrInvalidInput, input)
	}
	return m, nil
}
