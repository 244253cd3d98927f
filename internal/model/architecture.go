// Package model defines the data structures for architecture models and the
// documents generated from them.
package model

// Path represents a file system path.
type Path string

// Model is a single `model` definition from an architecture file.
type Model struct {
	Name         string
	Description  string
	Components   []ComponentRef
	Requirements []string // requirement ids declared directly on the model
	Behavior     []Behavior
	Source       Path // file the definition was loaded from
}

// ComponentRef points at another model definition by name.
type ComponentRef struct {
	Name  string
	Model string
}

// Target returns the name of the referenced model definition.
func (c ComponentRef) Target() string {
	if c.Model != "" {
		return c.Model
	}

	return c.Name
}

// Behavior is a named capability with acceptance features.
type Behavior struct {
	Name        string
	Description string
	Acceptance  []Feature
}

// Feature groups acceptance scenarios under an optional background.
type Feature struct {
	Name       string
	Background *Background
	Scenarios  []Scenario
}

// Background holds steps shared by every scenario of a feature.
type Background struct {
	Name  string
	Given []string
}

// Scenario is one acceptance test.
type Scenario struct {
	Name         string
	Requirements []string
	Given        []string
	When         []string
	Then         []string
}

// RequirementDef is a `req` definition from the requirement catalog.
type RequirementDef struct {
	ID      string
	Shall   string
	Parents []string
	Source  Path
}

// Catalog is everything loaded from an architecture file and its imports.
type Catalog struct {
	Models       []Model
	Requirements []RequirementDef
}
