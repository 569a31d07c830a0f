package textstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantWords     int
		wantSentences int
	}{
		{
			name:          "empty input",
			text:          "",
			wantWords:     0,
			wantSentences: 0,
		},
		{
			name:          "whitespace only",
			text:          "   \n\t  ",
			wantWords:     0,
			wantSentences: 0,
		},
		{
			name:          "single sentence",
			text:          "Quality plastic pipes for industrial use.",
			wantWords:     6,
			wantSentences: 1,
		},
		{
			name:          "multiple terminators collapse",
			text:          "Really?! Yes... Absolutely.",
			wantWords:     3,
			wantSentences: 3,
		},
		{
			name:          "no terminal punctuation still counts one sentence",
			text:          "trailing fragment without a period",
			wantWords:     5,
			wantSentences: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.wantWords, got.WordCount)
			assert.Equal(t, tt.wantSentences, got.SentenceCount)
			assert.Equal(t, len(tt.text), got.CharCount)
		})
	}
}

func TestExtractWordFrequencies(t *testing.T) {
	got := Extract("Pipes and more pipes. The pipes are good, the fittings too.")

	// Only tokens longer than 3 chars are tracked, case-folded.
	assert.Equal(t, 3, got.WordFrequencies["pipes"])
	assert.Equal(t, 1, got.WordFrequencies["fittings"])
	assert.NotContains(t, got.WordFrequencies, "the")
	assert.NotContains(t, got.WordFrequencies, "and")
}

func TestExtractAvgWordsPerSentence(t *testing.T) {
	got := Extract("One two three. Four five six seven.")
	assert.Equal(t, 7, got.WordCount)
	assert.Equal(t, 2, got.SentenceCount)
	assert.InDelta(t, 3.5, got.AvgWordsPerSent, 0.001)
}
