package model

// VCRM is a verification cross-reference matrix.
type VCRM struct {
	AllRequirements []Requirement // deduplicated, sorted by id
	AllSections     []string      // pre-order section titles
	Traces          []VcrmTrace   // one per section, same order as AllSections
}

// VcrmTrace lists the requirement ids reachable from one section.
type VcrmTrace struct {
	SectionTitle   string
	RequirementIDs []string
}

// Covers reports whether the trace references the requirement id.
func (t VcrmTrace) Covers(id string) bool {
	for _, reqID := range t.RequirementIDs {
		if reqID == id {
			return true
		}
	}

	return false
}
