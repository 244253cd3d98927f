package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOptions(gen GenerateFunc) BuildOptions {
	return BuildOptions{
		Prompt:              OutlinePrompt,
		Generate:            gen,
		EngineeringAppendix: true,
		Temperature:         0.3,
	}
}

func TestDocumentBuilder_SingleModel(t *testing.T) {
	root := m.Model{Name: "Root", Requirements: []string{"R1"}}
	lc := NewLanguageContext(m.Catalog{
		Models:       []m.Model{root},
		Requirements: []m.RequirementDef{req("R1", "The system shall X")},
	})
	gen := newFakeGenerator()

	node, err := NewDocumentBuilder(lc, nil).Build(context.Background(), root, buildOptions(gen.Generate), 0)
	require.NoError(t, err)

	assert.Equal(t, []m.Requirement{{ID: "R1", Shall: "The system shall X"}}, node.Requirements)
	assert.NotNil(t, node.Sections)
	assert.Empty(t, node.Sections)
	assert.Equal(t, "Text for Root.", node.GeneratedText)
	assert.Contains(t, gen.prompts["Root"], "R1: The system shall X")
	assert.NotContains(t, gen.prompts["Root"], "Sub-sections")
	assert.Equal(t, []float64{0.3}, gen.temps)
	assert.True(t, strings.HasPrefix(node.RenderedOutput, "# Root\n\nText for Root.\n\n> ## Engineering Details: Root"))
}

func TestDocumentBuilder_Tree(t *testing.T) {
	root := m.Model{
		Name:         "Root",
		Description:  "Top level.",
		Requirements: []string{"R1"},
		Components: []m.ComponentRef{
			comp("Gateway"),
			comp("Shared"),
			comp("Missing"),
			comp("Store"),
		},
	}
	gateway := m.Model{
		Name:         "Gateway",
		Description:  "Routes.",
		Requirements: []string{"R2"},
		Behavior: []m.Behavior{{
			Name:        "Route",
			Description: "Routes requests.",
			Acceptance: []m.Feature{{
				Name: "Routing",
				Scenarios: []m.Scenario{{
					Name:         "Forward",
					Requirements: []string{"R2", "R9"},
					Then:         []string{"It is forwarded"},
				}},
			}},
		}},
	}
	store := m.Model{Name: "Store", Description: "Keeps data."}

	observer := &recordingObserver{}
	lc := NewLanguageContext(m.Catalog{
		Models: []m.Model{
			root, gateway, store,
			{Name: "Shared", Description: "one"},
			{Name: "Shared", Description: "two"},
		},
		Requirements: []m.RequirementDef{
			req("R1", "The system shall X"),
			req("R2", "The gateway shall route", "R1"),
		},
	})
	gen := newFakeGenerator()

	opts := buildOptions(gen.Generate)
	opts.ParentReqs = true

	node, err := NewDocumentBuilder(lc, observer).Build(context.Background(), root, opts, 0)
	require.NoError(t, err)

	require.Len(t, node.Sections, 2)
	assert.Equal(t, "Gateway", node.Sections[0].Title)
	assert.Equal(t, "Store", node.Sections[1].Title)

	gw := node.Sections[0]
	assert.Equal(t, []m.Requirement{
		{ID: "R2", Shall: "The gateway shall route"},
		{ID: "R1", Shall: "The system shall X"},
	}, gw.Requirements)
	require.Len(t, gw.Content, 1)
	require.Len(t, gw.Content[0].Tests, 1)
	assert.Equal(t, []string{"It is forwarded"}, gw.Content[0].Tests[0].Criteria)
	assert.Len(t, gw.Content[0].Tests[0].Requirements, 2)
	assert.True(t, strings.HasPrefix(gw.RenderedOutput, "## Gateway\n"))

	assert.Contains(t, gen.prompts["Root"], "Sub-sections:\n  - Gateway: Routes.\n  - Store: Keeps data.\n")
	assert.NotContains(t, gen.prompts["Root"], "Text for Gateway")

	assert.Equal(t, []string{"0:Root", "1:Gateway", "1:Store"}, observer.started)
	assert.Equal(t, []string{"1:Gateway", "1:Store", "0:Root"}, observer.completed)
	assert.ElementsMatch(t, []m.Issue{
		{Kind: m.IssueComponentAmbiguous, Section: "Root", Subject: "Shared", Matches: 2},
		{Kind: m.IssueComponentNotFound, Section: "Root", Subject: "Missing"},
		{Kind: m.IssueRequirementNotFound, Subject: "R9"},
	}, observer.issues)
}

func TestDocumentBuilder_ReusedComponentInSiblings(t *testing.T) {
	root := m.Model{Name: "Root", Components: []m.ComponentRef{{Name: "left", Model: "Leaf"}, {Name: "right", Model: "Leaf"}}}
	lc := NewLanguageContext(m.Catalog{Models: []m.Model{root, {Name: "Leaf"}}})

	node, err := NewDocumentBuilder(lc, nil).Build(context.Background(), root, buildOptions(newFakeGenerator().Generate), 0)
	require.NoError(t, err)
	assert.Len(t, node.Sections, 2)
}

func TestDocumentBuilder_ComponentCycle(t *testing.T) {
	a := m.Model{Name: "A", Components: []m.ComponentRef{comp("B")}}
	b := m.Model{Name: "B", Components: []m.ComponentRef{comp("A")}}
	lc := NewLanguageContext(m.Catalog{Models: []m.Model{a, b}})

	_, err := NewDocumentBuilder(lc, nil).Build(context.Background(), a, buildOptions(newFakeGenerator().Generate), 0)
	require.ErrorIs(t, err, ErrComponentCycle)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestDocumentBuilder_GenerationFailures(t *testing.T) {
	root := m.Model{Name: "Root", Components: []m.ComponentRef{comp("Leaf")}}
	lc := NewLanguageContext(m.Catalog{Models: []m.Model{root, {Name: "Leaf"}}})

	t.Run("generator error aborts the build", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0

		gen := func(context.Context, string, float64) (string, error) {
			calls++
			return "", boom
		}

		_, err := NewDocumentBuilder(lc, nil).Build(context.Background(), root, buildOptions(gen), 0)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), `generate section "Leaf"`)
		assert.Equal(t, 1, calls)
	})

	t.Run("blank output is unusable", func(t *testing.T) {
		gen := func(context.Context, string, float64) (string, error) {
			return "```markdown\n   \n```", nil
		}

		_, err := NewDocumentBuilder(lc, nil).Build(context.Background(), root, buildOptions(gen), 0)
		require.ErrorIs(t, err, ErrEmptyGeneration)
	})
}

func TestDocumentGenerator_Generate(t *testing.T) {
	root := m.Model{Name: "Root", Components: []m.ComponentRef{comp("Leaf")}}
	lc := NewLanguageContext(m.Catalog{Models: []m.Model{root, {Name: "Leaf"}}})

	t.Run("serialises the tree in pre-order", func(t *testing.T) {
		opts := buildOptions(newFakeGenerator().Generate)
		opts.EngineeringAppendix = false

		node, markdown, err := NewDocumentGenerator(lc, nil).Generate(context.Background(), "Root", opts)
		require.NoError(t, err)
		assert.Equal(t, "Root", node.Title)
		assert.Equal(t, "# Root\n\nText for Root.\n\n## Leaf\n\nText for Leaf.\n", markdown)
	})

	t.Run("unknown title", func(t *testing.T) {
		_, _, err := NewDocumentGenerator(lc, nil).Generate(context.Background(), "Nope", buildOptions(newFakeGenerator().Generate))
		require.ErrorIs(t, err, ErrModelNotFound)
		assert.Contains(t, err.Error(), `unable to locate a document model with name/title "Nope"`)
	})
}
