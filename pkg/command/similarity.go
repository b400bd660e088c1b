package command

import "strings"

const (
	labelThreshold    = 0.5
	containmentScore  = 0.8
	keywordScore      = 0.7
	minKeywordLetters = 3
)

// Similarity scores two phrases by word overlap: 1 when equal, 0.8 when one
// contains the other, otherwise the share of words that overlap.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1.0
	}

	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if shorter == "" {
		return 0
	}
	if strings.Contains(longer, shorter) {
		return containmentScore
	}

	words1 := strings.Fields(a)
	words2 := strings.Fields(b)
	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	matches := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if w1 == w2 || strings.Contains(w1, w2) || strings.Contains(w2, w1) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(max(len(words1), len(words2)))
}

func keywordOverlap(transcript, label string) bool {
	labelWords := strings.Fields(label)
	for _, word := range strings.Fields(transcript) {
		if len(word) < minKeywordLetters {
			continue
		}
		for _, labelWord := range labelWords {
			if strings.Contains(labelWord, word) || strings.Contains(word, labelWord) {
				return true
			}
		}
	}
	return false
}

// MatchLabel finds the target whose label best matches the transcript and
// returns its 1-based position in targets. Only scores above the threshold
// count; ties keep the earlier target.
func MatchLabel(transcript string, targets []Target) (int, float64, bool) {
	best := 0
	bestScore := 0.0

	for idx, target := range targets {
		label := strings.ToLower(strings.TrimSpace(target.Label))
		if label == "" {
			continue
		}

		score := Similarity(transcript, label)
		if score < keywordScore && keywordOverlap(transcript, label) {
			score = keywordScore
		}

		if score > bestScore {
			best = idx + 1
			bestScore = score
		}
	}

	if bestScore <= labelThreshold {
		return 0, bestScore, false
	}
	return best, bestScore, true
}
