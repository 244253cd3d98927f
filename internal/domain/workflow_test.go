package domain_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter"
	adaptermocks "github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter/mocks"
	controllermocks "github.com/DevOps-MBSE/aac-doc-mdl/internal/controller/mocks"
	"github.com/DevOps-MBSE/aac-doc-mdl/internal/domain"
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCatalog() m.Catalog {
	return m.Catalog{
		Models: []m.Model{
			{Name: "Root", Requirements: []string{"R1"}, Components: []m.ComponentRef{{Name: "leaf", Model: "Leaf"}}},
			{Name: "Leaf", Requirements: []string{"R2"}},
		},
		Requirements: []m.RequirementDef{
			{ID: "R1", Shall: "The system shall X"},
			{ID: "R2", Shall: "The leaf shall Y"},
		},
	}
}

func expectProgressUI(ui *controllermocks.MockUI) {
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("Close", mock.Anything).Return().Once()
	ui.On("DisplaySectionStarted", mock.Anything, mock.Anything, mock.Anything).Return()
	ui.On("DisplaySectionCompleted", mock.Anything, mock.Anything, mock.Anything).Return()
}

func TestWorkflow_Outline_WritesAllRenderings(t *testing.T) {
	store := new(adaptermocks.MockModelStore)
	artifacts := new(adaptermocks.MockArtifactStore)
	ui := new(controllermocks.MockUI)
	gen := new(adaptermocks.MockGenerator)

	store.On("Load", mock.Anything, m.Path("models/arch.yaml")).Return(testCatalog(), nil).Once()
	expectProgressUI(ui)
	ui.On("DisplayArtifacts", mock.Anything, mock.MatchedBy(func(a []m.Artifact) bool {
		return len(a) == 3 &&
			a[0].Path == m.Path(filepath.Join("out", "arch-outline.md")) &&
			a[1].Path == m.Path(filepath.Join("out", "arch-outline.html")) &&
			a[2].Path == m.Path(filepath.Join("out", "arch-outline.docx"))
	})).Return().Once()
	gen.On("Generate", mock.Anything, mock.Anything, 0.1).Return("Generated.", nil).Twice()

	var markdown []byte

	artifacts.On("Save", mock.Anything, m.Path(filepath.Join("out", "arch-outline.md")), mock.Anything).
		Run(func(args mock.Arguments) { markdown = args.Get(2).([]byte) }).
		Return(m.Artifact{Path: m.Path(filepath.Join("out", "arch-outline.md")), Changed: true}, nil).Once()
	artifacts.On("Save", mock.Anything, m.Path(filepath.Join("out", "arch-outline.html")), mock.Anything).
		Return(m.Artifact{Path: m.Path(filepath.Join("out", "arch-outline.html")), Changed: true}, nil).Once()
	artifacts.On("Save", mock.Anything, m.Path(filepath.Join("out", "arch-outline.docx")), mock.Anything).
		Return(m.Artifact{Path: m.Path(filepath.Join("out", "arch-outline.docx")), Changed: true}, nil).Once()

	wf := domain.NewWorkflow(store, artifacts, ui)

	err := wf.Outline(context.Background(), domain.DocumentArgs{
		Title:            "Root",
		ArchitectureFile: "models/arch.yaml",
		Output:           "out",
		Temperature:      0.1,
		Generator:        gen,
	})
	require.NoError(t, err)

	assert.Contains(t, string(markdown), "# Root\n\nGenerated.")
	assert.Contains(t, string(markdown), "## Leaf\n\nGenerated.")
	assert.Contains(t, string(markdown), "> ## Engineering Details: Root")

	store.AssertExpectations(t)
	artifacts.AssertExpectations(t)
	ui.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestWorkflow_Draft_ContentOnlyMarkdownOnly(t *testing.T) {
	store := new(adaptermocks.MockModelStore)
	artifacts := new(adaptermocks.MockArtifactStore)
	ui := new(controllermocks.MockUI)
	gen := new(adaptermocks.MockGenerator)

	store.On("Load", mock.Anything, m.Path("arch.aac")).Return(testCatalog(), nil).Once()
	expectProgressUI(ui)
	ui.On("DisplayArtifacts", mock.Anything, mock.Anything).Return().Once()
	gen.On("Generate", mock.Anything, mock.Anything, 0.2).Return("```markdown\nDraft.\n```", nil)

	var markdown []byte

	artifacts.On("Save", mock.Anything, m.Path("arch-draft.md"), mock.Anything).
		Run(func(args mock.Arguments) { markdown = args.Get(2).([]byte) }).
		Return(m.Artifact{Path: "arch-draft.md", Changed: true}, nil).Once()

	wf := domain.NewWorkflow(store, artifacts, ui)

	err := wf.Draft(context.Background(), domain.DocumentArgs{
		Title:            "Root",
		ArchitectureFile: "arch.aac",
		Temperature:      0.2,
		ContentOnly:      true,
		MarkdownOnly:     true,
		Generator:        gen,
	})
	require.NoError(t, err)

	assert.Equal(t, "# Root\n\nDraft.\n\n## Leaf\n\nDraft.\n", string(markdown))
	artifacts.AssertNumberOfCalls(t, "Save", 1)
}

func TestWorkflow_Document_Failures(t *testing.T) {
	t.Run("generation failure writes nothing", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		artifacts := new(adaptermocks.MockArtifactStore)
		ui := new(controllermocks.MockUI)
		gen := new(adaptermocks.MockGenerator)

		store.On("Load", mock.Anything, mock.Anything).Return(testCatalog(), nil)
		expectProgressUI(ui)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

		err := domain.NewWorkflow(store, artifacts, ui).Outline(context.Background(), domain.DocumentArgs{
			Title: "Root", ArchitectureFile: "arch.yaml", Generator: gen,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
		artifacts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		ui.AssertNotCalled(t, "DisplayArtifacts", mock.Anything, mock.Anything)
	})

	t.Run("unknown title", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		artifacts := new(adaptermocks.MockArtifactStore)
		ui := new(controllermocks.MockUI)

		store.On("Load", mock.Anything, mock.Anything).Return(testCatalog(), nil)
		expectProgressUI(ui)

		err := domain.NewWorkflow(store, artifacts, ui).Draft(context.Background(), domain.DocumentArgs{
			Title: "Nope", ArchitectureFile: "arch.yaml", Generator: new(adaptermocks.MockGenerator),
		})
		require.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("missing generator", func(t *testing.T) {
		err := domain.NewWorkflow(nil, nil, nil).Outline(context.Background(), domain.DocumentArgs{Title: "Root"})
		require.ErrorIs(t, err, adapter.ErrGeneratorNotConfigured)
	})

	t.Run("load failure", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		store.On("Load", mock.Anything, mock.Anything).Return(m.Catalog{}, errors.New("no such file"))

		err := domain.NewWorkflow(store, nil, nil).Outline(context.Background(), domain.DocumentArgs{
			Title: "Root", Generator: new(adaptermocks.MockGenerator),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load architecture: no such file")
	})

	t.Run("save failure", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		artifacts := new(adaptermocks.MockArtifactStore)
		ui := new(controllermocks.MockUI)
		gen := new(adaptermocks.MockGenerator)

		store.On("Load", mock.Anything, mock.Anything).Return(testCatalog(), nil)
		expectProgressUI(ui)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
		artifacts.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(m.Artifact{}, errors.New("disk full"))

		err := domain.NewWorkflow(store, artifacts, ui).Outline(context.Background(), domain.DocumentArgs{
			Title: "Root", ArchitectureFile: "arch.yaml", MarkdownOnly: true, Generator: gen,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		ui.AssertNotCalled(t, "DisplayArtifacts", mock.Anything, mock.Anything)
	})
}

func TestWorkflow_Vcrm(t *testing.T) {
	t.Run("writes csv and markdown", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		artifacts := new(adaptermocks.MockArtifactStore)
		ui := new(controllermocks.MockUI)

		store.On("Load", mock.Anything, m.Path("arch.yaml")).Return(testCatalog(), nil)
		ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
		ui.On("Close", mock.Anything).Return().Once()
		ui.On("DisplayArtifacts", mock.Anything, mock.Anything).Return().Once()
		ui.On("DisplayCoverage", mock.Anything, mock.Anything, []string{}).Return().Once()

		var csvContent []byte

		artifacts.On("Save", mock.Anything, m.Path(filepath.Join("out", "arch-vcrm.csv")), mock.Anything).
			Run(func(args mock.Arguments) { csvContent = args.Get(2).([]byte) }).
			Return(m.Artifact{Path: m.Path(filepath.Join("out", "arch-vcrm.csv")), Changed: true}, nil).Once()
		artifacts.On("Save", mock.Anything, m.Path(filepath.Join("out", "arch-vcrm.md")), mock.Anything).
			Return(m.Artifact{Path: m.Path(filepath.Join("out", "arch-vcrm.md")), Changed: true}, nil).Once()

		err := domain.NewWorkflow(store, artifacts, ui).Vcrm(context.Background(), domain.VcrmArgs{
			Title: "Root", ArchitectureFile: "arch.yaml", Output: "out",
		})
		require.NoError(t, err)

		assert.Equal(t, "Document Section,Root,Leaf\nR1,X,-\nR2,-,X\n", string(csvContent))
		artifacts.AssertExpectations(t)
		ui.AssertExpectations(t)
	})

	t.Run("unknown title", func(t *testing.T) {
		store := new(adaptermocks.MockModelStore)
		store.On("Load", mock.Anything, mock.Anything).Return(testCatalog(), nil)

		err := domain.NewWorkflow(store, nil, nil).Vcrm(context.Background(), domain.VcrmArgs{Title: "Nope"})
		require.ErrorIs(t, err, domain.ErrModelNotFound)
	})
}
