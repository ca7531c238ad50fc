package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"bare number", "85", 85},
		{"number with whitespace", "  72\n", 72},
		{"number inside prose", "I would rate this candidate 64 out of 100.", 64},
		{"first number wins", "90 or maybe 10", 90},
		{"zero", "0", 0},
		{"hundred", "100", 100},
		{"clamped above", "250", 100},
		{"no number at all", "a strong fit", defaultScore},
		{"empty reply", "", defaultScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.reply))
		})
	}
}
