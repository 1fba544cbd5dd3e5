package reconcile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/engine/reconcile"
)

func mergedRequiresDist() []string {
	return reconcile.RequiresDist(reconcile.Reconcile(
		exampleManifest().Requires(), exampleOps(), domain.LockModeMerge))
}

func TestCompareRequires_Consistent(t *testing.T) {
	report, err := reconcile.CompareRequires(
		mergedRequiresDist(), exampleManifest().Requires(), exampleOps(), domain.LockModeMerge)
	require.NoError(t, err)
	assert.Empty(t, report.Errors())
}

func TestCompareRequires_NoLockWheelAgainstLock(t *testing.T) {
	requires := reconcile.RequiresDist(reconcile.Reconcile(
		exampleManifest().Requires(), exampleOps(), domain.LockModeNone))

	report, err := reconcile.CompareRequires(requires, exampleManifest().Requires(), exampleOps(), domain.LockModeMerge)
	require.NoError(t, err)

	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0],
		"Packages in poetry.lock are not present in the Wheel file: ['numpy', 'python-dateutil', 'pytz', 'six']")

	report, err = reconcile.CompareRequires(requires, exampleManifest().Requires(), exampleOps(), domain.LockModeNone)
	require.NoError(t, err)
	assert.Empty(t, report.Errors())
}

func TestCompareRequires_Conflicts(t *testing.T) {
	requires := []string{
		`boto3 (>=1.20,<2.0) ; extra == "aws"`,
		"nemoize (>=0.1.0,<0.2.0)",
		"pandas (>=1.3.5,<2.0)",
		"numpy (==1.22.0)",
		"python-dateutil (==2.8.2)",
		"pytz (==2022.7)",
		"six (==1.16.0)",
		"requests (>=2.0)",
	}

	report, err := reconcile.CompareRequires(requires, exampleManifest().Requires(), exampleOps(), domain.LockModeMerge)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Wheel file has different version constraints for Package(name=pandas, version=>=1.3.5,<2.0) " +
			"compared to pyproject.toml Package(name=pandas, version=>=1.3,<2.0)",
		"Wheel file has different version constraints for Package(name=numpy, version===1.22.0) " +
			"compared to poetry.lock Package(name=numpy, version=1.21.6)",
	}, report.Conflicts)
	assert.Equal(t, []string{"requests"}, report.Extraneous)
	assert.Empty(t, report.DeclaredMissing)
	assert.Empty(t, report.LockMissing)
}

func TestCompareRequires_OnlyLock(t *testing.T) {
	requires := reconcile.RequiresDist(reconcile.Reconcile(
		exampleManifest().Requires(), exampleOps(), domain.LockModeOnly))

	report, err := reconcile.CompareRequires(requires, exampleManifest().Requires(), exampleOps(), domain.LockModeOnly)
	require.NoError(t, err)
	assert.Empty(t, report.Errors())

	// The same wheel checked in merge mode: declared ranges are wider than the pins.
	report, err = reconcile.CompareRequires(requires, exampleManifest().Requires(), exampleOps(), domain.LockModeMerge)
	require.NoError(t, err)
	assert.Len(t, report.Conflicts, 3)
}

func TestCompareRequires_DeclaredMissing(t *testing.T) {
	report, err := reconcile.CompareRequires(
		[]string{"pandas (>=1.3,<2.0)"}, exampleManifest().Requires(), nil, domain.LockModeNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"boto3", "nemoize"}, report.DeclaredMissing)
}

func TestCompareRequires_Malformed(t *testing.T) {
	_, err := reconcile.CompareRequires([]string{"(>=1.0)"}, nil, nil, domain.LockModeMerge)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMalformedRequiresDist.Error())
}

func TestCompareRequires_DuplicateEntriesUnion(t *testing.T) {
	requires := []string{
		`pandas (>=1.3,<1.5) ; python_version < "3.8"`,
		`pandas (>=1.4,<2.0) ; python_version >= "3.8"`,
	}
	declared := []domain.Requirement{{Name: "pandas", Constraint: domain.MustParseConstraint(">=1.3,<2.0")}}

	report, err := reconcile.CompareRequires(requires, declared, nil, domain.LockModeNone)
	require.NoError(t, err)
	assert.Empty(t, report.Errors())
}

func TestCompareDataFiles(t *testing.T) {
	actual := []string{
		"x-1.0.data/data/share/b.txt",
		"x-1.0.data/data/share/a.txt",
		"x-1.0.data/data/share/extra.txt",
	}
	expected := []string{
		"x-1.0.data/data/share/a.txt",
		"x-1.0.data/data/share/b.txt",
		"x-1.0.data/data/share/c.txt",
	}

	report := reconcile.CompareDataFiles("dist/x-1.0-py3-none-any.whl", actual, expected)

	assert.Equal(t, []string{"x-1.0.data/data/share/c.txt"}, report.Missing)
	assert.Equal(t, []string{"x-1.0.data/data/share/extra.txt"}, report.Extraneous)

	errs := report.Errors()
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0],
		"Wheel at [dist/x-1.0-py3-none-any.whl] does not contain expected data_file [x-1.0.data/data/share/c.txt]")
	assert.EqualError(t, errs[1],
		"Wheel at [dist/x-1.0-py3-none-any.whl] contains extraneous data_files not specified in pyproject.toml: "+
			"['x-1.0.data/data/share/extra.txt']")
}

func TestFailure(t *testing.T) {
	require.NoError(t, reconcile.Failure(domain.ErrWheelValidationFailed))

	err := reconcile.Failure(domain.ErrWheelValidationFailed, errors.New("first"), errors.New("second"))
	require.ErrorIs(t, err, domain.ErrWheelValidationFailed)
	assert.ErrorContains(t, err, "first")
	assert.ErrorContains(t, err, "second")
}

func TestPyList(t *testing.T) {
	assert.Equal(t, "[]", reconcile.PyList(nil))
	assert.Equal(t, "['a', 'b']", reconcile.PyList([]string{"a", "b"}))
	assert.Equal(t, `["it's"]`, reconcile.PyList([]string{"it's"}))
}
