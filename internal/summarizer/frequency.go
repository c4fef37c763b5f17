// Package summarizer condenses recipe method text into a few sentences.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// stopwords are excluded from frequency scoring so instruction verbs and
// ingredient names dominate.
var stopwords = func() map[string]struct{} {
	words := strings.Fields(`a an the and or but if then else for to of in on
		at by with as is are was were be been being it this that these those
		from up down over under again further than so such into about between
		through during before after above below out off own same too very can
		will just don should now until when while each all any more most`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// Frequency is an extractive summarizer: sentences are scored by the
// normalized frequency of their non-stopword tokens and the top scorers
// are returned in original order.
type Frequency struct{}

// NewFrequency creates a frequency-based sentence ranker.
func NewFrequency() *Frequency { return &Frequency{} }

// Summarize condenses text to at most maxSentences sentences. Text
// without sentence terminators is returned trimmed as-is.
func (f *Frequency) Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	if maxSentences >= len(sentences) {
		return joinTrimmed(sentences)
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range tokenize(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		tokens := tokenize(sent)
		score := 0.0
		for _, tok := range tokens {
			score += freq[tok]
		}
		// normalize by sentence length so long sentences don't always win
		if n := float64(len(tokens)); n > 0 {
			score /= math.Sqrt(n)
		}
		scores[i] = ranked{i, score}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	picked := make([]string, 0, len(selected))
	for _, idx := range selected {
		picked = append(picked, sentences[idx])
	}
	return joinTrimmed(picked)
}

func joinTrimmed(sentences []string) string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, strings.TrimSpace(s))
	}
	return strings.Join(out, " ")
}

func tokenize(text string) []string {
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}
