package chunking

import (
	"strings"
)

// Splitter splits document text into overlapping, token-budgeted chunks
// suitable for embedding.
type Splitter struct {
	est           Estimator
	chunkTokens   int
	overlapTokens int
}

// NewSplitter creates a splitter producing chunks of about chunkTokens with
// overlapTokens of trailing context carried into the next chunk.
func NewSplitter(est Estimator, chunkTokens, overlapTokens int) (*Splitter, error) {
	if chunkTokens <= 0 {
		return nil, ErrInvalidBudget
	}
	if overlapTokens < 0 || overlapTokens >= chunkTokens {
		return nil, ErrInvalidOverlap
	}
	if est == nil {
		est = HeuristicEstimator{}
	}
	return &Splitter{est: est, chunkTokens: chunkTokens, overlapTokens: overlapTokens}, nil
}

// Split splits text into chunks. Paragraph boundaries are preferred,
// sentence boundaries second; a single sentence larger than the chunk size
// is hard-cut. Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	units := s.units(text)
	if len(units) == 0 {
		return nil
	}

	var chunks []string
	var cur []string
	curTokens := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(cur, " "))

		// Seed the next chunk with trailing units up to the overlap budget.
		var carry []string
		carryTokens := 0
		for i := len(cur) - 1; i >= 0; i-- {
			t := s.est.Estimate(cur[i])
			if carryTokens+t > s.overlapTokens {
				break
			}
			carry = append([]string{cur[i]}, carry...)
			carryTokens += t
		}
		cur = carry
		curTokens = carryTokens
	}

	for _, unit := range units {
		t := s.est.Estimate(unit)
		if curTokens+t > s.chunkTokens && len(cur) > 0 {
			flush()
		}
		cur = append(cur, unit)
		curTokens += t
	}
	if len(cur) > 0 {
		// Avoid emitting a final chunk that is pure overlap of the previous one.
		tail := strings.Join(cur, " ")
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], tail) {
			chunks = append(chunks, tail)
		}
	}

	return chunks
}

// units breaks text into sentence-sized pieces, hard-cutting any single
// sentence that exceeds the chunk budget.
func (s *Splitter) units(text string) []string {
	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, sentence := range splitSentences(para) {
			if s.est.Estimate(sentence) <= s.chunkTokens {
				units = append(units, sentence)
				continue
			}
			units = append(units, s.hardSplit(sentence)...)
		}
	}
	return units
}

// hardSplit cuts an oversized sentence into rune windows under the budget.
func (s *Splitter) hardSplit(sentence string) []string {
	var pieces []string
	runes := []rune(sentence)
	// The heuristic window avoids quadratic estimator calls; the loop below
	// shrinks it further when the estimator disagrees.
	window := s.chunkTokens * charsPerToken
	for len(runes) > 0 {
		n := min(window, len(runes))
		for n > 1 && s.est.Estimate(string(runes[:n])) > s.chunkTokens {
			n = n / 2
		}
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return pieces
}

// splitSentences splits a paragraph on sentence-final punctuation followed
// by whitespace. Abbreviation handling is deliberately naive; chunk overlap
// absorbs the occasional bad split.
func splitSentences(para string) []string {
	var sentences []string
	start := 0
	runes := []rune(para)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				sentence := strings.TrimSpace(string(runes[start : i+1]))
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
