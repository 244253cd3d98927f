// Package adapter contains infrastructure adapters for loading architecture
// models, calling the text generator and writing artifacts.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	rootModel  = "model"
	rootReq    = "req"
	rootImport = "import"
)

// ModelStore loads architecture definitions from disk.
type ModelStore interface {
	// Load parses the architecture file at path and every file it imports.
	Load(ctx context.Context, path m.Path) (m.Catalog, error)
}

// LocalModelStore reads multi-document YAML architecture files.
type LocalModelStore struct{}

// NewLocalModelStore constructs a LocalModelStore.
func NewLocalModelStore() *LocalModelStore {
	return &LocalModelStore{}
}

type modelYAML struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Components   []componentYAML `yaml:"components"`
	Requirements []string        `yaml:"requirements"`
	Behavior     []behaviorYAML  `yaml:"behavior"`
}

type componentYAML struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
}

type behaviorYAML struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Acceptance  []featureYAML `yaml:"acceptance"`
}

type featureYAML struct {
	Name       string          `yaml:"name"`
	Background *backgroundYAML `yaml:"background"`
	Scenarios  []scenarioYAML  `yaml:"scenarios"`
}

type backgroundYAML struct {
	Name  string   `yaml:"name"`
	Given []string `yaml:"given"`
}

type scenarioYAML struct {
	Name         string   `yaml:"name"`
	Requirements []string `yaml:"requirements"`
	Given        []string `yaml:"given"`
	When         []string `yaml:"when"`
	Then         []string `yaml:"then"`
}

type reqYAML struct {
	ID      string   `yaml:"id"`
	Shall   string   `yaml:"shall"`
	Parents []string `yaml:"parents"`
}

type importYAML struct {
	Files []string `yaml:"files"`
}

// Load implements ModelStore.
func (s *LocalModelStore) Load(ctx context.Context, path m.Path) (m.Catalog, error) {
	catalog := m.Catalog{}
	visited := make(map[string]struct{})

	if err := s.loadFile(ctx, string(path), visited, &catalog); err != nil {
		return m.Catalog{}, err
	}

	slog.Debug("Loaded architecture model", "path", path,
		"models", len(catalog.Models), "requirements", len(catalog.Requirements))

	return catalog, nil
}

func (s *LocalModelStore) loadFile(ctx context.Context, path string, visited map[string]struct{}, catalog *m.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(path)
	if _, ok := visited[clean]; ok {
		return nil
	}

	visited[clean] = struct{}{}

	// #nosec G304 - architecture files are chosen by the user
	data, err := os.ReadFile(clean)
	if err != nil {
		return fmt.Errorf("read architecture file: %w", err)
	}

	imports, err := parseDefinitions(data, m.Path(clean), catalog)
	if err != nil {
		return fmt.Errorf("parse %s: %w", clean, err)
	}

	for _, imported := range imports {
		if !filepath.IsAbs(imported) {
			imported = filepath.Join(filepath.Dir(clean), imported)
		}

		if err := s.loadFile(ctx, imported, visited, catalog); err != nil {
			return err
		}
	}

	return nil
}

// parseDefinitions appends the definitions found in data to catalog and
// returns the files listed by import definitions.
func parseDefinitions(data []byte, source m.Path, catalog *m.Catalog) ([]string, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var imports []string

	for index := 0; ; index++ {
		var doc map[string]yaml.Node

		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return imports, nil
		}

		if err != nil {
			return nil, fmt.Errorf("document %d: %w", index, err)
		}

		if len(doc) == 0 {
			continue
		}

		if len(doc) > 1 {
			return nil, fmt.Errorf("document %d: expected a single root key, found %d", index, len(doc))
		}

		for root, node := range doc {
			files, err := decodeRoot(root, &node, source, catalog)
			if err != nil {
				return nil, fmt.Errorf("document %d (%s): %w", index, root, err)
			}

			imports = append(imports, files...)
		}
	}
}

func decodeRoot(root string, node *yaml.Node, source m.Path, catalog *m.Catalog) ([]string, error) {
	switch root {
	case rootModel:
		var raw modelYAML
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}

		if raw.Name == "" {
			return nil, errors.New("model name is required")
		}

		catalog.Models = append(catalog.Models, raw.toModel(source))
	case rootReq:
		var raw reqYAML
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}

		if raw.ID == "" {
			return nil, errors.New("requirement id is required")
		}

		catalog.Requirements = append(catalog.Requirements, m.RequirementDef{
			ID:      raw.ID,
			Shall:   raw.Shall,
			Parents: raw.Parents,
			Source:  source,
		})
	case rootImport:
		var raw importYAML
		if err := node.Decode(&raw); err != nil {
			return nil, err
		}

		return raw.Files, nil
	default:
		slog.Debug("Skipping definition", "root", root, "source", source)
	}

	return nil, nil
}

func (raw modelYAML) toModel(source m.Path) m.Model {
	model := m.Model{
		Name:         raw.Name,
		Description:  raw.Description,
		Requirements: raw.Requirements,
		Source:       source,
	}

	for _, c := range raw.Components {
		model.Components = append(model.Components, m.ComponentRef{Name: c.Name, Model: c.Model})
	}

	for _, b := range raw.Behavior {
		behavior := m.Behavior{Name: b.Name, Description: b.Description}

		for _, f := range b.Acceptance {
			feature := m.Feature{Name: f.Name}
			if f.Background != nil {
				feature.Background = &m.Background{Name: f.Background.Name, Given: f.Background.Given}
			}

			for _, sc := range f.Scenarios {
				feature.Scenarios = append(feature.Scenarios, m.Scenario{
					Name:         sc.Name,
					Requirements: sc.Requirements,
					Given:        sc.Given,
					When:         sc.When,
					Then:         sc.Then,
				})
			}

			behavior.Acceptance = append(behavior.Acceptance, feature)
		}

		model.Behavior = append(model.Behavior, behavior)
	}

	return model
}
