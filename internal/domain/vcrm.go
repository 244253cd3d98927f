package domain

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/olekukonko/tablewriter"
)

const (
	vcrmCornerHeader = "Document Section"
	vcrmCovered      = "X"
	vcrmNotCovered   = "-"
)

// VcrmBuilder walks a model tree and records which requirements each section
// traces to.
type VcrmBuilder struct {
	lc       *LanguageContext
	resolver *RequirementResolver
	observer Observer
}

// NewVcrmBuilder constructs a VcrmBuilder. observer may be nil.
func NewVcrmBuilder(lc *LanguageContext, observer Observer) *VcrmBuilder {
	if observer == nil {
		observer = nopObserver{}
	}

	return &VcrmBuilder{
		lc:       lc,
		resolver: NewRequirementResolver(lc, observer),
		observer: observer,
	}
}

// Build produces the VCRM for the tree rooted at model. Each section's trace
// holds its own declared requirements followed by the requirements of the
// scenarios under its behaviors; descendants get their own traces.
func (v *VcrmBuilder) Build(ctx context.Context, model m.Model, parentReqs bool) (m.VCRM, error) {
	vcrm := m.VCRM{
		AllRequirements: []m.Requirement{},
		AllSections:     []string{},
		Traces:          []m.VcrmTrace{},
	}

	var all []m.Requirement

	if err := v.walk(ctx, model, parentReqs, nil, &vcrm, &all); err != nil {
		return m.VCRM{}, err
	}

	vcrm.AllRequirements = dedupeRequirements(all)

	return vcrm, nil
}

func (v *VcrmBuilder) walk(ctx context.Context, model m.Model, parentReqs bool, path []string, vcrm *m.VCRM, all *[]m.Requirement) error {
	if containsString(path, model.Name) {
		cycle := strings.Join(append(path, model.Name), " -> ")
		slog.Error("Component cycle detected", "cycle", cycle)

		return fmt.Errorf("%w: %s", ErrComponentCycle, cycle)
	}

	path = append(path[:len(path):len(path)], model.Name)

	reqs := v.resolver.ResolveAll(ctx, model.Requirements, parentReqs)

	for _, behavior := range model.Behavior {
		for _, feature := range behavior.Acceptance {
			for _, scenario := range feature.Scenarios {
				reqs = append(reqs, v.resolver.ResolveAll(ctx, scenario.Requirements, parentReqs)...)
			}
		}
	}

	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}

	*all = append(*all, reqs...)
	vcrm.AllSections = append(vcrm.AllSections, model.Name)
	vcrm.Traces = append(vcrm.Traces, m.VcrmTrace{SectionTitle: model.Name, RequirementIDs: ids})

	for _, ref := range model.Components {
		component, ok := lookupComponent(ctx, v.lc, v.observer, model.Name, ref)
		if !ok {
			continue
		}

		if err := v.walk(ctx, component, parentReqs, path, vcrm, all); err != nil {
			return err
		}
	}

	return nil
}

func dedupeRequirements(reqs []m.Requirement) []m.Requirement {
	seen := make(map[string]struct{}, len(reqs))
	unique := make([]m.Requirement, 0, len(reqs))

	for _, req := range reqs {
		if _, ok := seen[req.ID]; ok {
			continue
		}

		seen[req.ID] = struct{}{}
		unique = append(unique, req)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].ID < unique[j].ID
	})

	return unique
}

// UncoveredRequirements returns the ids in AllRequirements that no trace
// references, in AllRequirements order.
func UncoveredRequirements(vcrm m.VCRM) []string {
	covered := make(map[string]struct{})

	for _, trace := range vcrm.Traces {
		for _, id := range trace.RequirementIDs {
			covered[id] = struct{}{}
		}
	}

	uncovered := []string{}

	for _, req := range vcrm.AllRequirements {
		if _, ok := covered[req.ID]; !ok {
			uncovered = append(uncovered, req.ID)
		}
	}

	return uncovered
}

// HasFullCoverage reports whether every requirement appears in at least one trace.
func HasFullCoverage(vcrm m.VCRM) bool {
	return len(UncoveredRequirements(vcrm)) == 0
}

// VcrmGrid lays the matrix out as a header row of section titles followed by
// one row per requirement with a presence marker per section.
func VcrmGrid(vcrm m.VCRM) [][]string {
	header := make([]string, 0, len(vcrm.Traces)+1)
	header = append(header, vcrmCornerHeader)

	for _, trace := range vcrm.Traces {
		header = append(header, trace.SectionTitle)
	}

	grid := [][]string{header}

	for _, req := range vcrm.AllRequirements {
		row := make([]string, 0, len(header))
		row = append(row, req.ID)

		for _, trace := range vcrm.Traces {
			if trace.Covers(req.ID) {
				row = append(row, vcrmCovered)
			} else {
				row = append(row, vcrmNotCovered)
			}
		}

		grid = append(grid, row)
	}

	return grid
}

// WriteVcrmCSV writes the matrix as comma separated values.
func WriteVcrmCSV(w io.Writer, vcrm m.VCRM) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(VcrmGrid(vcrm)); err != nil {
		return fmt.Errorf("write vcrm csv: %w", err)
	}

	return nil
}

// WriteVcrmMarkdown writes the matrix as a markdown table.
func WriteVcrmMarkdown(w io.Writer, vcrm m.VCRM) error {
	grid := VcrmGrid(vcrm)

	table := tablewriter.NewWriter(w)
	table.SetHeader(grid[0])
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(grid[1:])
	table.Render()

	return nil
}
