package reconcile

import (
	"slices"

	"go.trai.ch/blix/internal/core/domain"
)

// Reconcile computes the wheel's requirement list from the declared requirements and
// the resolved lock operations.
//
// LockModeNone keeps the declared list. LockModeMerge keeps it and appends an exact pin
// for every resolved package not declared. LockModeOnly emits one exact pin per resolved
// package, carrying over the extras a declared requirement of the same name belongs to.
func Reconcile(declared []domain.Requirement, ops []domain.ResolvedOperation, mode domain.LockMode) []domain.Requirement {
	switch mode {
	case domain.LockModeNone:
		return slices.Clone(declared)

	case domain.LockModeOnly:
		extras := make(map[string][]string, len(declared))
		for _, r := range declared {
			extras[r.CanonicalName()] = append(extras[r.CanonicalName()], r.InExtras...)
		}
		out := make([]domain.Requirement, 0, len(ops))
		for _, op := range ops {
			inExtras := op.InExtras
			if e, ok := extras[op.Package.CanonicalName()]; ok {
				inExtras = dedupe(e)
			}
			out = append(out, domain.PinnedRequirement(op.Package, inExtras))
		}
		return out

	default:
		out := slices.Clone(declared)
		names := make(map[string]bool, len(declared))
		for _, r := range declared {
			names[r.CanonicalName()] = true
		}
		for _, op := range ops {
			if names[op.Package.CanonicalName()] {
				continue
			}
			out = append(out, op.Requirement())
		}
		return out
	}
}

// RequiresDist renders requirements as Requires-Dist header values, in order.
func RequiresDist(reqs []domain.Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.String())
	}
	return out
}

// ProvidesExtra returns the sorted set of project extras referenced by reqs or declared in extras.
func ProvidesExtra(reqs []domain.Requirement, extras map[string][]string) []string {
	var out []string
	for _, r := range reqs {
		out = append(out, r.InExtras...)
	}
	for name := range extras {
		out = append(out, name)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func dedupe(in []string) []string {
	var out []string
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
