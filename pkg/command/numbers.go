package command

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:option\s*)?(\d+)`),
	regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\b`),
	regexp.MustCompile(`\b(first|second|third|fourth|fifth)\b`),
	regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`),
}

type NumberExtractor struct {
	numberWords map[string]int
}

func NewNumberExtractor() *NumberExtractor {
	return &NumberExtractor{
		numberWords: map[string]int{
			"one": 1, "first": 1,
			"two": 2, "second": 2,
			"three": 3, "third": 3,
			"four": 4, "fourth": 4,
			"five": 5, "fifth": 5,
			"six": 6, "sixth": 6,
			"seven": 7, "seventh": 7,
			"eight": 8, "eighth": 8,
			"nine": 9, "ninth": 9,
			"ten": 10, "tenth": 10,
		},
	}
}

// Extract returns the first number found by the patterns, tried in
// order. The second return value is the pattern index that matched.
func (ne *NumberExtractor) Extract(text string) (int, int, bool) {
	for idx, pattern := range numberPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		if n, ok := ne.Word(match[1]); ok {
			return n, idx, true
		}

		n, err := strconv.Atoi(match[1])
		if err != nil {
			// Digits too long for an int still name an option, just not one
			// that exists.
			if errors.Is(err, strconv.ErrRange) {
				return math.MaxInt, idx, true
			}
			continue
		}
		return n, idx, true
	}

	return 0, -1, false
}

// Word converts a spoken cardinal or ordinal up to ten.
func (ne *NumberExtractor) Word(word string) (int, bool) {
	n, ok := ne.numberWords[word]
	return n, ok
}
