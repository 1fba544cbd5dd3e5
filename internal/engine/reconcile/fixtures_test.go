package reconcile_test

import "go.trai.ch/blix/internal/core/domain"

func exampleManifest() *domain.Manifest {
	return &domain.Manifest{
		Root:    "/work/blixexample",
		Name:    "blixexample",
		Version: "0.1.0",
		Groups: []domain.DependencyGroup{
			{
				Name: domain.MainGroup,
				Dependencies: []domain.Requirement{
					{Name: "pandas", Constraint: domain.MustParseConstraint("^1.3")},
					{Name: "nemoize", Constraint: domain.MustParseConstraint("^0.1.0")},
					{Name: "boto3", Constraint: domain.MustParseConstraint("^1.20"), Optional: true, InExtras: []string{"aws"}},
				},
			},
			{
				Name:         "dev",
				Dependencies: []domain.Requirement{{Name: "pytest", Constraint: domain.MustParseConstraint("^7.0")}},
			},
		},
		Extras: map[string][]string{"aws": {"boto3"}},
	}
}

func exampleLock() *domain.Lockfile {
	return &domain.Lockfile{
		Version: "2.0",
		Packages: []domain.LockedPackage{
			{Name: "boto3", Version: "1.26.0", Optional: true, Groups: []string{"main"}},
			{Name: "nemoize", Version: "0.1.0", Groups: []string{"main"}},
			{Name: "numpy", Version: "1.21.6", Groups: []string{"main"}},
			{
				Name:    "pandas",
				Version: "1.3.5",
				Groups:  []string{"main"},
				Dependencies: []domain.LockedDependency{
					{Name: "numpy", Constraint: ">=1.17.3"},
					{Name: "python-dateutil", Constraint: ">=2.7.3"},
					{Name: "pytz", Constraint: ">=2017.3"},
				},
			},
			{Name: "pytest", Version: "7.2.0", Groups: []string{"dev"}, Dependencies: []domain.LockedDependency{{Name: "pluggy"}}},
			{Name: "pluggy", Version: "1.0.0", Groups: []string{"dev"}},
			{
				Name:         "python-dateutil",
				Version:      "2.8.2",
				Groups:       []string{"main"},
				Dependencies: []domain.LockedDependency{{Name: "six", Constraint: ">=1.5"}},
			},
			{Name: "pytz", Version: "2022.7", Groups: []string{"main"}},
			{Name: "six", Version: "1.16.0", Groups: []string{"main"}},
			{Name: "six", Version: "1.16.0", Groups: []string{"main"}},
			{Name: "unrelated", Version: "3.0.0", Groups: []string{"main"}},
		},
	}
}

func op(name, version string, extras ...string) domain.ResolvedOperation {
	return domain.ResolvedOperation{
		Package:  domain.LockedPackage{Name: name, Version: version},
		InExtras: extras,
	}
}

// exampleOps is what resolving exampleLock for the main group yields.
func exampleOps() []domain.ResolvedOperation {
	return []domain.ResolvedOperation{
		op("boto3", "1.26.0", "aws"),
		op("nemoize", "0.1.0"),
		op("numpy", "1.21.6"),
		op("pandas", "1.3.5"),
		op("python-dateutil", "2.8.2"),
		op("pytz", "2022.7"),
		op("six", "1.16.0"),
	}
}
