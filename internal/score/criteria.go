// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"strings"
)

// Default returns the standard framework: novelty, depth, clarity, and
// structure, weighted toward novelty.
func Default() *Framework {
	f := NewFramework()
	f.Register(noveltyCriterion{}, 0.3)
	f.Register(depthCriterion{}, 0.25)
	f.Register(clarityCriterion{}, 0.25)
	f.Register(structureCriterion{}, 0.2)
	return f
}

const wordPunctuation = ".,;:!?()[]\"'"

// noveltyCriterion rewards lexical variety: the ratio of distinct words to
// total words.
type noveltyCriterion struct{}

func (noveltyCriterion) Name() string { return "novelty" }

func (noveltyCriterion) Evaluate(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.Trim(word, wordPunctuation)
		if word != "" {
			distinct[word] = struct{}{}
		}
	}
	return float64(len(distinct)) / float64(len(words))
}

// depthTargetWords is the word count at which a response is considered
// fully developed.
const depthTargetWords = 200

// depthCriterion rewards substance: word count saturating at the target.
type depthCriterion struct{}

func (depthCriterion) Name() string { return "depth" }

func (depthCriterion) Evaluate(text string) float64 {
	n := len(strings.Fields(text))
	if n >= depthTargetWords {
		return 1
	}
	return float64(n) / depthTargetWords
}

// clarityIdealSentenceLen is the mean words-per-sentence that scores
// highest. Longer and shorter sentences both lose points linearly.
const clarityIdealSentenceLen = 18.0

// clarityCriterion rewards readable sentence lengths.
type clarityCriterion struct{}

func (clarityCriterion) Name() string { return "clarity" }

func (clarityCriterion) Evaluate(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	var words int
	for _, s := range sentences {
		words += len(strings.Fields(s))
	}
	mean := float64(words) / float64(len(sentences))
	score := 1 - math.Abs(mean-clarityIdealSentenceLen)/clarityIdealSentenceLen
	return math.Max(0, score)
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// structureCriterion rewards visible organization: list items, headers,
// line breaks, and paragraph separation.
type structureCriterion struct{}

func (structureCriterion) Name() string { return "structure" }

func (structureCriterion) Evaluate(text string) float64 {
	var nonEmpty, structured, blanks int
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blanks++
			continue
		}
		nonEmpty++
		if isListItem(trimmed) || strings.HasPrefix(trimmed, "#") {
			structured++
		}
	}
	if nonEmpty == 0 {
		return 0
	}

	score := float64(structured) / float64(nonEmpty)
	if blanks > 0 {
		score += 0.3
	}
	if nonEmpty > 1 {
		score += 0.2
	}
	return math.Min(1, score)
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')')
}
