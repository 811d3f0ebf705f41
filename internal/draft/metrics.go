package draft

import "strings"

// wordsPerMinute is the reading speed behind EstimatedReadTime.
const wordsPerMinute = 200

// WordCount returns the number of whitespace-delimited tokens in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// EstimatedReadTime returns the reading time in whole minutes, rounded half
// up and never below one.
func EstimatedReadTime(content string) int {
	minutes := (WordCount(content) + wordsPerMinute/2) / wordsPerMinute
	return max(1, minutes)
}
