package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter"
	"github.com/DevOps-MBSE/aac-doc-mdl/internal/controller"
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	outlineSuffix = "-outline"
	draftSuffix   = "-draft"
	vcrmSuffix    = "-vcrm"
)

// DocumentArgs contains the arguments for generating an outline or draft.
type DocumentArgs struct {
	Title            string
	ArchitectureFile m.Path
	Output           m.Path
	ParentReqs       bool
	Temperature      float64
	ContentOnly      bool // drafts only: omit the engineering appendix
	MarkdownOnly     bool // skip the HTML and DOCX renderings
	Generator        adapter.Generator
}

// VcrmArgs contains the arguments for building a traceability matrix.
type VcrmArgs struct {
	Title            string
	ArchitectureFile m.Path
	Output           m.Path
	ParentReqs       bool
}

// Workflow defines the document generation workflows exposed by the CLI.
type Workflow interface {
	Outline(ctx context.Context, args DocumentArgs) error
	Draft(ctx context.Context, args DocumentArgs) error
	Vcrm(ctx context.Context, args VcrmArgs) error
}

type workflow struct {
	adapter.ModelStore
	adapter.ArtifactStore
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	modelStore adapter.ModelStore,
	artifactStore adapter.ArtifactStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		ModelStore:    modelStore,
		ArtifactStore: artifactStore,
		UI:            ui,
	}
}

type documentKind struct {
	mode     controller.StartMode
	suffix   string
	prompt   PromptFunc
	appendix bool
}

// Outline generates an abstract level document with the engineering appendix.
func (w *workflow) Outline(ctx context.Context, args DocumentArgs) error {
	return w.document(ctx, args, documentKind{
		mode:     controller.ModeOutline,
		suffix:   outlineSuffix,
		prompt:   OutlinePrompt,
		appendix: true,
	})
}

// Draft generates a detailed document, with the appendix unless ContentOnly is set.
func (w *workflow) Draft(ctx context.Context, args DocumentArgs) error {
	return w.document(ctx, args, documentKind{
		mode:     controller.ModeDraft,
		suffix:   draftSuffix,
		prompt:   DraftPrompt,
		appendix: !args.ContentOnly,
	})
}

func (w *workflow) document(ctx context.Context, args DocumentArgs, kind documentKind) error {
	if args.Generator == nil {
		return adapter.ErrGeneratorNotConfigured
	}

	lc, err := w.loadContext(ctx, args.ArchitectureFile)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithMode(kind.mode), controller.WithTitle(args.Title)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	generator := NewDocumentGenerator(lc, w.UI)

	_, markdown, err := generator.Generate(ctx, args.Title, BuildOptions{
		Prompt:              kind.prompt,
		Generate:            args.Generator.Generate,
		EngineeringAppendix: kind.appendix,
		ParentReqs:          args.ParentReqs,
		Temperature:         args.Temperature,
	})
	if err != nil {
		slog.Error("Failed to generate document", "title", args.Title, "error", err)
		return fmt.Errorf("generate %s: %w", kind.mode, err)
	}

	outputs, err := renderDocument(args.Title, []byte(markdown), args.MarkdownOnly)
	if err != nil {
		slog.Error("Failed to render document", "title", args.Title, "error", err)
		return fmt.Errorf("render %s: %w", kind.mode, err)
	}

	artifacts, err := w.saveAll(ctx, outputBase(args.Output, args.ArchitectureFile, kind.suffix), outputs)
	if err != nil {
		return err
	}

	w.DisplayArtifacts(ctx, artifacts)

	return nil
}

// Vcrm builds the traceability matrix for the document rooted at args.Title,
// writes it as CSV and markdown, and fails when coverage is incomplete.
func (w *workflow) Vcrm(ctx context.Context, args VcrmArgs) error {
	lc, err := w.loadContext(ctx, args.ArchitectureFile)
	if err != nil {
		return err
	}

	root, ok := lc.RootModel(args.Title)
	if !ok {
		return fmt.Errorf("%w: unable to locate a document model with name/title %q", ErrModelNotFound, args.Title)
	}

	if err := w.Start(ctx, controller.WithMode(controller.ModeVcrm), controller.WithTitle(args.Title)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	vcrm, err := NewVcrmBuilder(lc, w.UI).Build(ctx, root, args.ParentReqs)
	if err != nil {
		slog.Error("Failed to build VCRM", "title", args.Title, "error", err)
		return fmt.Errorf("build vcrm: %w", err)
	}

	return w.publishVcrm(ctx, args, vcrm)
}

// publishVcrm writes the CSV and markdown matrices, shows the coverage summary
// and returns ErrIncompleteCoverage when a requirement has no section.
func (w *workflow) publishVcrm(ctx context.Context, args VcrmArgs, vcrm m.VCRM) error {
	var csvBuf, mdBuf bytes.Buffer

	if err := WriteVcrmCSV(&csvBuf, vcrm); err != nil {
		return fmt.Errorf("write vcrm csv: %w", err)
	}

	if err := WriteVcrmMarkdown(&mdBuf, vcrm); err != nil {
		return fmt.Errorf("write vcrm markdown: %w", err)
	}

	artifacts, err := w.saveAll(ctx, outputBase(args.Output, args.ArchitectureFile, vcrmSuffix), []output{
		{ext: ".csv", content: csvBuf.Bytes()},
		{ext: ".md", content: mdBuf.Bytes()},
	})
	if err != nil {
		return err
	}

	w.DisplayArtifacts(ctx, artifacts)

	uncovered := UncoveredRequirements(vcrm)
	w.DisplayCoverage(ctx, vcrm, uncovered)

	if len(uncovered) > 0 {
		slog.Warn("Requirements without coverage", "title", args.Title, "uncovered", uncovered)
		return fmt.Errorf("%w: %s", ErrIncompleteCoverage, strings.Join(uncovered, ", "))
	}

	return nil
}

func (w *workflow) loadContext(ctx context.Context, path m.Path) (*LanguageContext, error) {
	catalog, err := w.Load(ctx, path)
	if err != nil {
		slog.Error("Failed to load architecture model", "path", path, "error", err)
		return nil, fmt.Errorf("load architecture: %w", err)
	}

	return NewLanguageContext(catalog), nil
}

type output struct {
	ext     string
	content []byte
}

func renderDocument(title string, markdown []byte, markdownOnly bool) ([]output, error) {
	outputs := []output{{ext: ".md", content: markdown}}
	if markdownOnly {
		return outputs, nil
	}

	page, err := adapter.RenderHTML(title, markdown)
	if err != nil {
		return nil, err
	}

	doc, err := adapter.RenderDOCX(markdown)
	if err != nil {
		return nil, err
	}

	return append(outputs,
		output{ext: ".html", content: page},
		output{ext: ".docx", content: doc},
	), nil
}

// saveAll writes every output concurrently and returns the artifacts in
// output order.
func (w *workflow) saveAll(ctx context.Context, base string, outputs []output) ([]m.Artifact, error) {
	artifacts := make([]m.Artifact, len(outputs))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, out := range outputs {
		group.Go(func() error {
			artifact, err := w.Save(groupCtx, m.Path(base+out.ext), out.content)
			if err != nil {
				slog.Error("Failed to save artifact", "path", base+out.ext, "error", err)
				return fmt.Errorf("save %s: %w", base+out.ext, err)
			}

			artifacts[i] = artifact

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return artifacts, nil
}

// outputBase returns <output>/<architecture file name without extension><suffix>.
func outputBase(outputDir, architectureFile m.Path, suffix string) string {
	name := filepath.Base(string(architectureFile))
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return filepath.Join(string(outputDir), name+suffix)
}
