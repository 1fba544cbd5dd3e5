// Package reconcile turns a project's manifest and lock file into wheel metadata
// and checks built artifacts against them.
package reconcile

import "go.trai.ch/blix/internal/core/domain"

// Project narrows a lock file to the packages the active groups can reach.
//
// Entries repeating the same name and version are collapsed. Reachability follows
// locked dependency edges by name, optional edges included, starting from every
// dependency the active groups declare. Lock entries that carry a groups list must
// share a group with the active set. Direct-origin packages end up in Deferred.
func Project(lock *domain.Lockfile, manifest *domain.Manifest, groups domain.GroupSet) domain.Universe {
	if lock == nil {
		return domain.Universe{}
	}

	byName := make(map[string][]domain.LockedPackage)
	seen := make(map[string]bool)
	var unique []domain.LockedPackage
	for _, p := range lock.Packages {
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		unique = append(unique, p)
		byName[p.CanonicalName()] = append(byName[p.CanonicalName()], p)
	}

	reached := make(map[string]bool)
	var queue []string
	for _, r := range manifest.RootRequirements(groups) {
		queue = append(queue, r.CanonicalName())
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if reached[name] {
			continue
		}
		reached[name] = true
		for _, p := range byName[name] {
			if !inActiveGroups(p, groups) {
				continue
			}
			for _, dep := range p.Dependencies {
				if !reached[dep.CanonicalName()] {
					queue = append(queue, dep.CanonicalName())
				}
			}
		}
	}

	var u domain.Universe
	for _, p := range unique {
		if !reached[p.CanonicalName()] || !inActiveGroups(p, groups) {
			continue
		}
		if p.IsDirect() {
			u.Deferred = append(u.Deferred, p)
			continue
		}
		u.Packages = append(u.Packages, p)
	}
	return u
}

func inActiveGroups(p domain.LockedPackage, groups domain.GroupSet) bool {
	if len(p.Groups) == 0 {
		return true
	}
	for _, g := range p.Groups {
		if groups.Contains(g) {
			return true
		}
	}
	return false
}
