package chunking

import (
	"fmt"
	"strings"
)

// perNodeOverhead accounts for the prompt framing around each node (ID line,
// separators) so a "full" batch still fits after templating.
const perNodeOverhead = 8

// truncationMarker is appended to node content that was cut to fit a budget.
const truncationMarker = "\n[truncated]"

// Packer packs canvas nodes into token-budgeted batches.
type Packer struct {
	est    Estimator
	budget int
}

// NewPacker creates a packer with the given estimator and per-batch budget.
// The budget must exceed the per-node overhead, otherwise even an empty node
// cannot fit in a batch.
func NewPacker(est Estimator, budget int) (*Packer, error) {
	if budget <= perNodeOverhead {
		return nil, ErrInvalidBudget
	}
	if est == nil {
		est = HeuristicEstimator{}
	}
	return &Packer{est: est, budget: budget}, nil
}

// Budget returns the per-batch token budget.
func (p *Packer) Budget() int {
	return p.budget
}

// NodeText renders a node the way the summary prompt presents it. Packing
// and prompting must agree on this rendering or budgets drift.
func NodeText(n Node) string {
	if n.Content == "" {
		return n.Title
	}
	return n.Title + "\n" + n.Content
}

// Pack splits nodes into batches whose estimated token totals stay within
// the budget. Input order is preserved and every node lands in exactly one
// batch. A node that alone exceeds the budget has its content truncated to
// fit and occupies its own batch.
func (p *Packer) Pack(nodes []Node) []Batch {
	var batches []Batch
	var cur Batch

	flush := func() {
		if len(cur.Nodes) > 0 {
			batches = append(batches, cur)
			cur = Batch{}
		}
	}

	for _, node := range nodes {
		tokens := p.est.Estimate(NodeText(node)) + perNodeOverhead

		if tokens > p.budget {
			// Oversized node: truncate and isolate so neighbors are not
			// starved of budget.
			flush()
			truncated, cutTokens := p.truncate(node)
			batches = append(batches, Batch{
				Nodes:     []Node{truncated},
				Tokens:    cutTokens + perNodeOverhead,
				Truncated: []string{node.ID},
			})
			continue
		}

		if cur.Tokens+tokens > p.budget {
			flush()
		}
		cur.Nodes = append(cur.Nodes, node)
		cur.Tokens += tokens
	}
	flush()

	return batches
}

// truncate cuts a node's content so the rendered text fits the budget minus
// the per-node overhead. The title is always kept whole. Binary search over
// the rune prefix keeps estimator calls logarithmic in content length.
func (p *Packer) truncate(node Node) (Node, int) {
	target := p.budget - perNodeOverhead

	runes := []rune(node.Content)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		candidate := node
		candidate.Content = string(runes[:mid]) + truncationMarker
		if p.est.Estimate(NodeText(candidate)) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	node.Content = string(runes[:lo]) + truncationMarker
	tokens := p.est.Estimate(NodeText(node))
	if tokens > target {
		// Even the bare title overflows; cut it too. This only happens with
		// degenerate budgets, but the invariant must hold regardless.
		node.Content = ""
		node.Title = p.hardCut(node.Title, target)
		tokens = p.est.Estimate(NodeText(node))
	}
	return node, tokens
}

// hardCut trims text to the largest rune prefix within the token target.
func (p *Packer) hardCut(text string, target int) string {
	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.est.Estimate(string(runes[:mid])) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

// Describe returns a short human-readable packing report for logs.
func Describe(batches []Batch) string {
	parts := make([]string, len(batches))
	for i, b := range batches {
		parts[i] = fmt.Sprintf("batch %d: %d nodes, ~%d tokens", i+1, len(b.Nodes), b.Tokens)
	}
	return strings.Join(parts, "; ")
}
