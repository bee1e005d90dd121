package content

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	wordsPerMinute  = 200
	secondsPerImage = 12
)

var imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

// readingMetrics estimates how long a body takes to read: word count at a
// standard reading speed plus a flat per-image allowance for visual scanning,
// rounded to whole minutes with a floor of one.
func readingMetrics(body string) (text string, minutes, words int) {
	words = len(strings.Fields(body))
	images := len(imagePattern.FindAllStringIndex(body, -1))

	estimate := float64(words)/wordsPerMinute + float64(images*secondsPerImage)/60
	minutes = int(math.Round(estimate))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes), minutes, words
}
