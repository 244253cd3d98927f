package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start prints the header for the requested mode.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	s.printf("Generating %s for %q\n", cfg.mode, cfg.title)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplaySectionStarted prints the section being generated.
func (s *SimpleUI) DisplaySectionStarted(ctx context.Context, title string, depth int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%sStarting section %s\n", indent(depth), title)
}

// DisplaySectionCompleted prints the finished section.
func (s *SimpleUI) DisplaySectionCompleted(ctx context.Context, title string, depth int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%sCompleted section %s\n", indent(depth), title)
}

// DisplayIssue prints a warning for a skipped model element.
func (s *SimpleUI) DisplayIssue(ctx context.Context, issue m.Issue) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("warning: %s\n", FormatIssue(issue))
}

// DisplayArtifacts lists the written files.
func (s *SimpleUI) DisplayArtifacts(ctx context.Context, artifacts []m.Artifact) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, artifact := range artifacts {
		s.printf("%s\n", FormatArtifact(artifact))
	}
}

// DisplayCoverage prints a per-section coverage table and the uncovered ids.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, vcrm m.VCRM, uncovered []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderCoverageTable(vcrm))

	if len(uncovered) > 0 {
		s.printf("Uncovered requirements: %s\n", strings.Join(uncovered, ", "))
		return
	}

	s.printf("All %d requirement(s) covered\n", len(vcrm.AllRequirements))
}

func renderCoverageTable(vcrm m.VCRM) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Section", "Requirements"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	total := 0

	for _, trace := range vcrm.Traces {
		table.Append([]string{trace.SectionTitle, fmt.Sprintf("%d", len(trace.RequirementIDs))})
		total += len(trace.RequirementIDs)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Sections %d", len(vcrm.Traces)),
		fmt.Sprintf("%d", total),
	})

	table.Render()

	return tableBuffer.String()
}

// FormatIssue describes a skipped model element in one line.
func FormatIssue(issue m.Issue) string {
	switch issue.Kind {
	case m.IssueRequirementNotFound:
		return fmt.Sprintf("requirement %s not found", issue.Subject)
	case m.IssueComponentNotFound:
		return fmt.Sprintf("section %s: component model %s not found", issue.Section, issue.Subject)
	case m.IssueComponentAmbiguous:
		return fmt.Sprintf("section %s: component model %s matched %d definitions", issue.Section, issue.Subject, issue.Matches)
	case m.IssueRequirementCycle:
		return fmt.Sprintf("requirement %s has a cyclic parent chain", issue.Subject)
	default:
		return fmt.Sprintf("%s: %s", issue.Kind, issue.Subject)
	}
}

// FormatArtifact describes a written file in one line.
func FormatArtifact(artifact m.Artifact) string {
	switch {
	case !artifact.Changed:
		return fmt.Sprintf("Unchanged %s", artifact.Path)
	case artifact.Diff > 0:
		return fmt.Sprintf("Updated %s (%d line(s) changed)", artifact.Path, artifact.Diff)
	default:
		return fmt.Sprintf("Wrote %s", artifact.Path)
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
