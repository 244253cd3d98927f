package model

// Requirement is a resolved requirement id and its shall statement.
type Requirement struct {
	ID    string
	Shall string
}

// TestCase is derived from an acceptance scenario.
type TestCase struct {
	Name         string
	Requirements []Requirement // may repeat ids, in discovery order
	Criteria     []string      // literal "then" lines
}

// ContentBlock is derived from a behavior.
type ContentBlock struct {
	Heading     string
	Description string
	Tests       []TestCase
}

// DocumentNode is one section of a generated document. Sections mirror the
// owning model's components in source order.
type DocumentNode struct {
	Title          string
	Description    string
	GeneratedText  string
	RenderedOutput string
	Sections       []DocumentNode
	Content        []ContentBlock
	Requirements   []Requirement
}

// SectionCount returns the number of nodes in the tree rooted at d.
func (d DocumentNode) SectionCount() int {
	count := 1
	for _, section := range d.Sections {
		count += section.SectionCount()
	}

	return count
}
