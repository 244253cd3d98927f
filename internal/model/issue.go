package model

// IssueKind categorises a non-fatal gap found while walking a model.
type IssueKind string

const (
	// IssueRequirementNotFound means a requirement id has no definition.
	IssueRequirementNotFound IssueKind = "requirement-not-found"
	// IssueComponentNotFound means a component name matched no model.
	IssueComponentNotFound IssueKind = "component-not-found"
	// IssueComponentAmbiguous means a component name matched several models.
	IssueComponentAmbiguous IssueKind = "component-ambiguous"
	// IssueRequirementCycle means a parent chain loops back on itself.
	IssueRequirementCycle IssueKind = "requirement-cycle"
)

// Issue is a structural gap that was logged and skipped.
type Issue struct {
	Kind    IssueKind
	Section string // title of the section being built
	Subject string // requirement id or component name
	Matches int    // number of definitions found for component lookups
}

// Artifact is a file written by a workflow.
type Artifact struct {
	Path    Path
	Changed bool // false when an identical file already existed
	Diff    int  // number of changed lines against the previous version
}
