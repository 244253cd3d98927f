package domain

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLevelContext() (*LanguageContext, m.Model) {
	root := m.Model{Name: "Root", Requirements: []string{"R1"}, Components: []m.ComponentRef{comp("Leaf")}}
	leaf := m.Model{Name: "Leaf", Requirements: []string{"R2"}}

	return NewLanguageContext(m.Catalog{
		Models: []m.Model{root, leaf},
		Requirements: []m.RequirementDef{
			req("R1", "The system shall X"),
			req("R2", "The leaf shall Y", "R1"),
		},
	}), root
}

func TestVcrmBuilder_TwoLevelTree(t *testing.T) {
	lc, root := twoLevelContext()

	vcrm, err := NewVcrmBuilder(lc, nil).Build(context.Background(), root, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "Leaf"}, vcrm.AllSections)
	assert.Equal(t, []m.VcrmTrace{
		{SectionTitle: "Root", RequirementIDs: []string{"R1"}},
		{SectionTitle: "Leaf", RequirementIDs: []string{"R2"}},
	}, vcrm.Traces)
	assert.Equal(t, []m.Requirement{
		{ID: "R1", Shall: "The system shall X"},
		{ID: "R2", Shall: "The leaf shall Y"},
	}, vcrm.AllRequirements)
	assert.True(t, HasFullCoverage(vcrm))

	var buf bytes.Buffer
	require.NoError(t, WriteVcrmCSV(&buf, vcrm))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Document Section", "Root", "Leaf"}, records[0])

	for _, row := range records[1:] {
		marks := 0

		for _, cell := range row[1:] {
			if cell == "X" {
				marks++
			}
		}

		assert.Equal(t, 1, marks, "row %v", row)
	}

	assert.Equal(t, []string{"R1", "X", "-"}, records[1])
	assert.Equal(t, []string{"R2", "-", "X"}, records[2])
}

func TestVcrmBuilder_ParentRequirementsAndScenarios(t *testing.T) {
	lc, root := twoLevelContext()
	leaf, _ := lc.RootModel("Leaf")

	leaf.Behavior = []m.Behavior{{
		Name: "Work",
		Acceptance: []m.Feature{{Scenarios: []m.Scenario{
			{Name: "one", Requirements: []string{"R2"}},
		}}},
	}}
	lc = NewLanguageContext(m.Catalog{
		Models: []m.Model{root, leaf},
		Requirements: []m.RequirementDef{
			req("R1", "The system shall X"),
			req("R2", "The leaf shall Y", "R1"),
		},
	})

	vcrm, err := NewVcrmBuilder(lc, nil).Build(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"R2", "R1", "R2", "R1"}, vcrm.Traces[1].RequirementIDs)
	assert.Len(t, vcrm.AllRequirements, 2)
}

func TestVcrmBuilder_Errors(t *testing.T) {
	a := m.Model{Name: "A", Components: []m.ComponentRef{comp("A")}}
	lc := NewLanguageContext(m.Catalog{Models: []m.Model{a}})

	_, err := NewVcrmBuilder(lc, nil).Build(context.Background(), a, false)
	require.ErrorIs(t, err, ErrComponentCycle)

	observer := &recordingObserver{}
	root := m.Model{Name: "Root", Components: []m.ComponentRef{comp("Ghost")}}

	vcrm, err := NewVcrmBuilder(NewLanguageContext(m.Catalog{Models: []m.Model{root}}), observer).Build(context.Background(), root, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root"}, vcrm.AllSections)
	assert.Equal(t, []m.Issue{{Kind: m.IssueComponentNotFound, Section: "Root", Subject: "Ghost"}}, observer.issues)
}

func TestCoverage(t *testing.T) {
	vcrm := m.VCRM{
		AllRequirements: []m.Requirement{{ID: "R1"}, {ID: "R2"}, {ID: "R3"}},
		AllSections:     []string{"Root", "Leaf"},
		Traces: []m.VcrmTrace{
			{SectionTitle: "Root", RequirementIDs: []string{"R1", "R1"}},
			{SectionTitle: "Leaf", RequirementIDs: []string{"R3"}},
		},
	}

	assert.Equal(t, []string{"R2"}, UncoveredRequirements(vcrm))
	assert.False(t, HasFullCoverage(vcrm))

	vcrm.Traces[1].RequirementIDs = append(vcrm.Traces[1].RequirementIDs, "R2")
	assert.Empty(t, UncoveredRequirements(vcrm))
	assert.True(t, HasFullCoverage(vcrm))

	assert.True(t, HasFullCoverage(m.VCRM{}))
}

func TestWriteVcrmMarkdown(t *testing.T) {
	lc, root := twoLevelContext()

	vcrm, err := NewVcrmBuilder(lc, nil).Build(context.Background(), root, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteVcrmMarkdown(&buf, vcrm))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Document Section | Root | Leaf |", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "|---"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "| R1 "), lines[2])
	assert.Contains(t, lines[2], "| X ")
	assert.True(t, strings.HasPrefix(lines[3], "| R2 "), lines[3])
}
