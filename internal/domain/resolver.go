package domain

import (
	"context"
	"log/slog"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

// RequirementResolver turns requirement ids into Requirements, optionally
// walking each requirement's parent chain.
type RequirementResolver struct {
	lc       *LanguageContext
	observer Observer
}

// NewRequirementResolver creates a resolver over the given context.
func NewRequirementResolver(lc *LanguageContext, observer Observer) *RequirementResolver {
	if observer == nil {
		observer = nopObserver{}
	}

	return &RequirementResolver{lc: lc, observer: observer}
}

// Resolve returns the requirement followed, when includeParents is set, by
// the depth-first resolution of each parent in declaration order. An unknown
// id yields an empty slice. Duplicates are kept.
func (r *RequirementResolver) Resolve(ctx context.Context, id string, includeParents bool) []m.Requirement {
	return r.resolve(ctx, id, includeParents, nil)
}

func (r *RequirementResolver) resolve(ctx context.Context, id string, includeParents bool, chain []string) []m.Requirement {
	def, ok := r.lc.Requirement(id)
	if !ok {
		slog.Warn("Requirement not found", "requirement", id)
		r.observer.DisplayIssue(ctx, m.Issue{Kind: m.IssueRequirementNotFound, Subject: id})

		return []m.Requirement{}
	}

	reqs := []m.Requirement{{ID: def.ID, Shall: def.Shall}}
	if !includeParents || len(def.Parents) == 0 {
		return reqs
	}

	chain = append(chain, id)

	for _, parentID := range def.Parents {
		if containsString(chain, parentID) {
			slog.Error("Requirement parent cycle", "requirement", id, "parent", parentID, "chain", chain)
			r.observer.DisplayIssue(ctx, m.Issue{Kind: m.IssueRequirementCycle, Subject: parentID})

			continue
		}

		reqs = append(reqs, r.resolve(ctx, parentID, true, chain)...)
	}

	return reqs
}

// ResolveAll resolves each id in order and concatenates the results.
func (r *RequirementResolver) ResolveAll(ctx context.Context, ids []string, includeParents bool) []m.Requirement {
	reqs := []m.Requirement{}
	for _, id := range ids {
		reqs = append(reqs, r.Resolve(ctx, id, includeParents)...)
	}

	return reqs
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
