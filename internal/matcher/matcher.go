package matcher

import (
	"sort"
	"strings"
)

// Coverage is how much of a job description a resume speaks to
type Coverage struct {
	Score   float64  // between 0.0 and 1.0
	Matched []string // keywords found in the resume
	Missing []string // keywords absent from the resume, most frequent first
}

// CalculateCoverage extracts keywords from the job description and checks
// which appear in the resume. Without a description the score is neutral.
func CalculateCoverage(jobDescription, resume string) Coverage {
	keywords := rankKeywords(extractKeywords(strings.ToLower(jobDescription)))
	if len(keywords) == 0 {
		return Coverage{Score: 0.5}
	}

	resumeLower := strings.ToLower(resume)
	cov := Coverage{Matched: []string{}, Missing: []string{}}
	for _, keyword := range keywords {
		if resumeLower != "" && strings.Contains(resumeLower, keyword) {
			cov.Matched = append(cov.Matched, keyword)
		} else {
			cov.Missing = append(cov.Missing, keyword)
		}
	}
	cov.Score = float64(len(cov.Matched)) / float64(len(keywords))
	return cov
}

// FocusAreas returns up to n missing keywords to steer question generation.
// A resume that covers everything falls back to the top matched keywords.
func (c Coverage) FocusAreas(n int) []string {
	src := c.Missing
	if len(src) == 0 {
		src = c.Matched
	}
	if len(src) > n {
		src = src[:n]
	}
	return append([]string{}, src...)
}

// rankKeywords dedupes keywords, ordering by frequency then first appearance
func rankKeywords(words []string) []string {
	counts := map[string]int{}
	order := []string{}
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// extractKeywords extracts meaningful keywords from lower-cased text
func extractKeywords(text string) []string {
	// Common stop words to ignore
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "with": true, "by": true,
		"will": true, "your": true, "you": true, "our": true, "are": true,
		"have": true, "from": true, "this": true, "that": true, "work": true,
		"team": true, "role": true, "about": true, "we're": true, "experience": true,
	}

	words := strings.Fields(text)
	keywords := []string{}

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:()[]\"'")
		if len(word) > 3 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}

	return keywords
}
