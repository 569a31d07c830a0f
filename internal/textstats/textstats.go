// Package textstats computes basic lexical statistics over plain text.
package textstats

import (
	"strings"
	"unicode"
)

// Signals holds the lexical statistics extracted from a block of text.
type Signals struct {
	WordCount       int
	CharCount       int
	SentenceCount   int
	AvgWordsPerSent float64
	WordFrequencies map[string]int // case-folded, words longer than 3 chars only
}

// Extract computes Signals for the given text. Empty or whitespace-only input
// yields zero-valued Signals.
func Extract(text string) Signals {
	s := Signals{
		CharCount:       len(text),
		WordFrequencies: make(map[string]int),
	}

	words := strings.Fields(text)
	s.WordCount = len(words)

	for _, w := range words {
		folded := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len(folded) > 3 {
			s.WordFrequencies[folded]++
		}
	}

	s.SentenceCount = len(SplitSentences(text))
	if s.SentenceCount > 0 {
		s.AvgWordsPerSent = float64(s.WordCount) / float64(s.SentenceCount)
	}

	return s
}

// SplitSentences splits text on runs of '.', '!' and '?' and drops empty
// fragments.
func SplitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if frag := strings.TrimSpace(sb.String()); frag != "" {
				sentences = append(sentences, frag)
			}
			sb.Reset()
			continue
		}
		sb.WriteRune(r)
	}
	if frag := strings.TrimSpace(sb.String()); frag != "" {
		sentences = append(sentences, frag)
	}
	return sentences
}
