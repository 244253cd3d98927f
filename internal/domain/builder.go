package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

// GenerateFunc calls the external text generator.
type GenerateFunc func(ctx context.Context, prompt string, temperature float64) (string, error)

// BuildOptions controls how a document tree is built and generated.
type BuildOptions struct {
	Prompt              PromptFunc
	Generate            GenerateFunc
	EngineeringAppendix bool
	ParentReqs          bool
	Temperature         float64
}

// DocumentBuilder converts a model and its nested components into a
// DocumentNode tree, generating text for each node bottom-up.
type DocumentBuilder struct {
	lc       *LanguageContext
	resolver *RequirementResolver
	observer Observer
}

// NewDocumentBuilder constructs a DocumentBuilder. observer may be nil.
func NewDocumentBuilder(lc *LanguageContext, observer Observer) *DocumentBuilder {
	if observer == nil {
		observer = nopObserver{}
	}

	return &DocumentBuilder{
		lc:       lc,
		resolver: NewRequirementResolver(lc, observer),
		observer: observer,
	}
}

// Build converts model into a fully generated DocumentNode at depth. Missing
// or ambiguous components are logged and omitted. Generator failures and
// component cycles abort the build.
func (b *DocumentBuilder) Build(ctx context.Context, model m.Model, opts BuildOptions, depth int) (m.DocumentNode, error) {
	return b.build(ctx, model, opts, depth, nil)
}

func (b *DocumentBuilder) build(ctx context.Context, model m.Model, opts BuildOptions, depth int, path []string) (m.DocumentNode, error) {
	if containsString(path, model.Name) {
		cycle := strings.Join(append(path, model.Name), " -> ")
		slog.Error("Component cycle detected", "cycle", cycle)

		return m.DocumentNode{}, fmt.Errorf("%w: %s", ErrComponentCycle, cycle)
	}

	path = append(path[:len(path):len(path)], model.Name)

	b.observer.DisplaySectionStarted(ctx, model.Name, depth)

	sections := []m.DocumentNode{}

	for _, ref := range model.Components {
		component, ok := lookupComponent(ctx, b.lc, b.observer, model.Name, ref)
		if !ok {
			continue
		}

		section, err := b.build(ctx, component, opts, depth+1, path)
		if err != nil {
			return m.DocumentNode{}, err
		}

		sections = append(sections, section)
	}

	node := m.DocumentNode{
		Title:        model.Name,
		Description:  model.Description,
		Sections:     sections,
		Requirements: b.resolver.ResolveAll(ctx, model.Requirements, opts.ParentReqs),
		Content:      b.contentBlocks(ctx, model.Behavior, opts.ParentReqs),
	}

	text, err := b.generate(ctx, node, opts)
	if err != nil {
		return m.DocumentNode{}, err
	}

	node.GeneratedText = text

	rendered, err := RenderNode(node, opts.EngineeringAppendix, depth)
	if err != nil {
		return m.DocumentNode{}, fmt.Errorf("render section %q: %w", node.Title, err)
	}

	node.RenderedOutput = rendered

	b.observer.DisplaySectionCompleted(ctx, node.Title, depth)

	return node, nil
}

func (b *DocumentBuilder) generate(ctx context.Context, node m.DocumentNode, opts BuildOptions) (string, error) {
	prompt := opts.Prompt(node)
	start := time.Now()

	raw, err := opts.Generate(ctx, prompt, opts.Temperature)
	if err != nil {
		slog.Error("Generation failed", "section", node.Title, "error", err)
		return "", fmt.Errorf("generate section %q: %w", node.Title, err)
	}

	text := StripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		slog.Error("Generation returned no content", "section", node.Title)
		return "", fmt.Errorf("generate section %q: %w", node.Title, ErrEmptyGeneration)
	}

	slog.Debug("Generated section", "section", node.Title, "prompt_len", len(prompt),
		"text_len", len(text), "duration", time.Since(start))

	return text, nil
}

func (b *DocumentBuilder) contentBlocks(ctx context.Context, behaviors []m.Behavior, parentReqs bool) []m.ContentBlock {
	blocks := make([]m.ContentBlock, 0, len(behaviors))

	for _, behavior := range behaviors {
		tests := []m.TestCase{}

		for _, feature := range behavior.Acceptance {
			for _, scenario := range feature.Scenarios {
				tests = append(tests, m.TestCase{
					Name:         scenario.Name,
					Requirements: b.resolver.ResolveAll(ctx, scenario.Requirements, parentReqs),
					Criteria:     append([]string{}, scenario.Then...),
				})
			}
		}

		blocks = append(blocks, m.ContentBlock{
			Heading:     behavior.Name,
			Description: behavior.Description,
			Tests:       tests,
		})
	}

	return blocks
}

// lookupComponent resolves a component reference to exactly one model.
func lookupComponent(ctx context.Context, lc *LanguageContext, observer Observer, section string, ref m.ComponentRef) (m.Model, bool) {
	name := ref.Target()
	matches := lc.ModelsByName(name)

	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		slog.Error("Component model not found", "section", section, "component", name)
		observer.DisplayIssue(ctx, m.Issue{Kind: m.IssueComponentNotFound, Section: section, Subject: name})
	default:
		slog.Error("Component model is ambiguous", "section", section, "component", name, "matches", len(matches))
		observer.DisplayIssue(ctx, m.Issue{
			Kind:    m.IssueComponentAmbiguous,
			Section: section,
			Subject: name,
			Matches: len(matches),
		})
	}

	return m.Model{}, false
}

// DocumentGenerator drives a build from a document title and serialises the
// resulting tree to markdown.
type DocumentGenerator struct {
	lc      *LanguageContext
	builder *DocumentBuilder
}

// NewDocumentGenerator constructs a DocumentGenerator.
func NewDocumentGenerator(lc *LanguageContext, observer Observer) *DocumentGenerator {
	return &DocumentGenerator{lc: lc, builder: NewDocumentBuilder(lc, observer)}
}

// Generate builds the document rooted at the model named title and returns
// the tree together with its markdown serialisation.
func (g *DocumentGenerator) Generate(ctx context.Context, title string, opts BuildOptions) (m.DocumentNode, string, error) {
	root, ok := g.lc.RootModel(title)
	if !ok {
		return m.DocumentNode{}, "", fmt.Errorf("%w: unable to locate a document model with name/title %q", ErrModelNotFound, title)
	}

	node, err := g.builder.Build(ctx, root, opts, 0)
	if err != nil {
		return m.DocumentNode{}, "", err
	}

	return node, DocumentMarkdown(node), nil
}
