package content

import (
	"math"
	"regexp"
)

// WordsPerMinute is the reading speed behind ReadingTime.
const WordsPerMinute = 200

// Every single non-word character is a separator, so a run of them yields
// empty tokens, and those are counted too.
var reWordSeparator = regexp.MustCompile(`[^\w]`)

// CountWords returns the number of pieces s splits into.
// The empty string counts as one.
func CountWords(s string) int {
	return len(reWordSeparator.Split(s, -1))
}

// WordCount sums the words of every present heading and every body block.
func WordCount(a Article) int {
	total := 0
	for _, s := range a.Data.Content {
		if s.HasHeading {
			total += CountWords(s.Heading)
		}
		for _, b := range s.Body {
			total += CountWords(b.Text)
		}
	}
	return total
}

// ReadingTime estimates minutes to read a: words/200 rounded to the nearest
// integer, halves away from zero. Short articles give 0.
func ReadingTime(a Article) int {
	return int(math.Round(float64(WordCount(a)) / WordsPerMinute))
}
