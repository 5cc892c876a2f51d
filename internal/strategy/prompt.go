package strategy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boardroomlabs/boardroomd/internal/chunking"
)

const analysisSystemPrompt = "You are a strategy analyst. You receive a set of cards from a planning " +
	"canvas, each with an id, a kind, a title, and optional content. Identify the key themes and any " +
	"relationships between cards. Respond with JSON only, no prose, in this shape:\n" +
	`{"themes": ["..."], "relationships": [{"source_id": "...", "target_id": "...", "kind": "relates|supports|contradicts|depends", "reason": "...", "confidence": 0.0}]}`

const synthesisSystemPrompt = "You are a strategy analyst. You receive themes extracted from sections of a " +
	"planning canvas. Write a concise strategic summary: the main direction, the tensions or risks, and " +
	"the open questions. Use short paragraphs, no headings."

// batchAnalysis is the JSON shape each analysis call must return.
type batchAnalysis struct {
	Themes        []string                `json:"themes"`
	Relationships []chunking.Relationship `json:"relationships"`
}

// buildAnalysisPrompt renders one batch of nodes for the analysis call.
func buildAnalysisPrompt(batch chunking.Batch) string {
	var b strings.Builder
	b.WriteString("Canvas cards:\n")
	for _, node := range batch.Nodes {
		fmt.Fprintf(&b, "id: %s\n%s\n\n", node.ID, chunking.NodeText(node))
	}
	return b.String()
}

// buildSynthesisPrompt renders the collected themes for the synthesis call.
func buildSynthesisPrompt(themes []string) string {
	var b strings.Builder
	b.WriteString("Themes from the canvas:\n")
	for _, theme := range themes {
		fmt.Fprintf(&b, "- %s\n", theme)
	}
	return b.String()
}

// parseAnalysis decodes a model response, tolerating markdown code fences.
func parseAnalysis(text string) (batchAnalysis, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var out batchAnalysis
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return batchAnalysis{}, fmt.Errorf("parsing analysis response: %w", err)
	}
	return out, nil
}
