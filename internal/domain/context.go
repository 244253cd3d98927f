package domain

import (
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

// LanguageContext gives the builders read access to the definitions loaded
// for one command invocation.
type LanguageContext struct {
	models       []m.Model
	byName       map[string][]int
	requirements map[string]m.RequirementDef
}

// NewLanguageContext indexes a catalog. When a requirement id is defined more
// than once the first definition wins.
func NewLanguageContext(catalog m.Catalog) *LanguageContext {
	lc := &LanguageContext{
		models:       catalog.Models,
		byName:       make(map[string][]int, len(catalog.Models)),
		requirements: make(map[string]m.RequirementDef, len(catalog.Requirements)),
	}

	for i, model := range catalog.Models {
		lc.byName[model.Name] = append(lc.byName[model.Name], i)
	}

	for _, req := range catalog.Requirements {
		if _, exists := lc.requirements[req.ID]; exists {
			continue
		}

		lc.requirements[req.ID] = req
	}

	return lc
}

// ModelsByName returns every model definition with the given name.
func (lc *LanguageContext) ModelsByName(name string) []m.Model {
	indexes := lc.byName[name]
	models := make([]m.Model, 0, len(indexes))

	for _, i := range indexes {
		models = append(models, lc.models[i])
	}

	return models
}

// RootModel returns the first model whose name equals title.
func (lc *LanguageContext) RootModel(title string) (m.Model, bool) {
	indexes := lc.byName[title]
	if len(indexes) == 0 {
		return m.Model{}, false
	}

	return lc.models[indexes[0]], true
}

// Requirement looks up a requirement definition by id.
func (lc *LanguageContext) Requirement(id string) (m.RequirementDef, bool) {
	req, ok := lc.requirements[id]
	return req, ok
}
