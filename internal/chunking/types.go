package chunking

// Node is the canvas payload handed to the packer. It carries only what the
// summary prompt needs; persistence concerns stay in the store.
type Node struct {
	ID      string
	Title   string
	Content string
}

// Batch groups nodes whose combined token estimate fits a budget.
type Batch struct {
	Nodes []Node
	// Tokens is the estimated token total for the batch, including the
	// per-node framing overhead.
	Tokens int
	// Truncated lists IDs of nodes whose content was cut to fit the budget.
	Truncated []string
}

// Relationship is an LLM-suggested connection between two canvas nodes.
type Relationship struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Kind       string  `json:"kind"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence"`
}
