package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/core/domain"
)

func sampleManifest() *domain.Manifest {
	return &domain.Manifest{
		Name:    "blixexample",
		Version: "0.1.0",
		Groups: []domain.DependencyGroup{
			{
				Name: domain.MainGroup,
				Dependencies: []domain.Requirement{
					{Name: "pandas", Constraint: domain.MustParseConstraint("^1.3")},
					{Name: "Nemoize", Constraint: domain.MustParseConstraint("^0.1.0")},
					{Name: "boto3", Optional: true, InExtras: []string{"aws"}},
					{Name: "orphan", Optional: true},
				},
			},
			{Name: "dev", Dependencies: []domain.Requirement{{Name: "pytest"}}},
			{Name: "docs", Optional: true, Dependencies: []domain.Requirement{{Name: "sphinx"}}},
		},
	}
}

func TestManifest_Requires(t *testing.T) {
	reqs := sampleManifest().Requires()

	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"boto3", "Nemoize", "pandas"}, names)
}

func TestManifest_SelectGroups(t *testing.T) {
	m := sampleManifest()

	groups, err := m.SelectGroups(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupSet{"main"}, groups)

	groups, err = m.SelectGroups([]string{"dev,docs", "default", "dev"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupSet{"main", "dev", "docs"}, groups)
	assert.Equal(t, []string{"dev", "docs"}, groups.Extra())
	assert.True(t, groups.Contains("default"))

	_, err = m.SelectGroups([]string{"dev", "lint,typing"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "Group(s) not found: lint, typing (via --with-groups)")
}

func TestManifest_RootRequirements(t *testing.T) {
	m := sampleManifest()
	reqs := m.RootRequirements(domain.GroupSet{"main", "dev"})
	require.Len(t, reqs, 5)
	assert.Equal(t, "pytest", reqs[4].Name)
}

func TestLockModeFromFlags(t *testing.T) {
	mode, err := domain.LockModeFromFlags(false, false)
	require.NoError(t, err)
	assert.Equal(t, domain.LockModeMerge, mode)

	mode, err = domain.LockModeFromFlags(true, false)
	require.NoError(t, err)
	assert.Equal(t, "no-lock", mode.String())

	mode, err = domain.LockModeFromFlags(false, true)
	require.NoError(t, err)
	assert.Equal(t, domain.LockModeOnly, mode)

	_, err = domain.LockModeFromFlags(true, true)
	require.ErrorIs(t, err, domain.ErrIncompatibleLockOptions)
	assert.EqualError(t, err, "'no-lock' and 'only-lock' options are incompatible")

	parsed, err := domain.ParseLockMode("only-lock")
	require.NoError(t, err)
	assert.Equal(t, domain.LockModeOnly, parsed)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "python-dateutil", domain.CanonicalName("Python_DateUtil"))
	assert.Equal(t, "zope-interface", domain.CanonicalName("zope.interface"))
	assert.Equal(t, "a-b", domain.CanonicalName("A--_.b"))
	assert.Equal(t, "python_dateutil", domain.EscapeName("python-dateutil"))
	assert.Equal(t, "blixexample-0.1.0.data", domain.DataDirName("blixexample", "0.1.0"))
	assert.Equal(t, "1.0_local", domain.EscapeVersion("1.0-local"))
}

func TestWheelContents_DataFiles(t *testing.T) {
	w := &domain.WheelContents{
		Name:        "blixexample",
		Version:     "0.1.0",
		DistInfoDir: "blixexample-0.1.0.dist-info",
		Files: []string{
			"blixexample/__init__.py",
			"blixexample-0.1.0.data/data/share/data/test.txt",
			"blixexample-0.1.0.data/scripts/run",
			"blixexample-0.1.0.dist-info/METADATA",
		},
	}
	assert.Equal(t, "blixexample-0.1.0.data", w.DataDir())
	assert.Equal(t, []string{"blixexample-0.1.0.data/data/share/data/test.txt"}, w.DataFiles())
}
