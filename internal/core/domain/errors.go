package domain

import "go.trai.ch/zerr"

var (
	// ErrIncompatibleLockOptions is returned when both no-lock and only-lock are requested.
	ErrIncompatibleLockOptions = zerr.New("'no-lock' and 'only-lock' options are incompatible")

	// ErrGroupNotFound is returned when a requested dependency group is not declared in the manifest.
	ErrGroupNotFound = zerr.New("dependency group not found")

	// ErrManifestReadFailed is returned when pyproject.toml cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read pyproject.toml")

	// ErrManifestParseFailed is returned when pyproject.toml cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse pyproject.toml")

	// ErrNotPoetryProject is returned when pyproject.toml has no [tool.poetry] section.
	ErrNotPoetryProject = zerr.New("pyproject.toml does not contain a [tool.poetry] section")

	// ErrLockReadFailed is returned when poetry.lock cannot be read.
	ErrLockReadFailed = zerr.New("failed to read poetry.lock")

	// ErrLockParseFailed is returned when poetry.lock cannot be parsed.
	ErrLockParseFailed = zerr.New("failed to parse poetry.lock")

	// ErrInvalidConstraint is returned when a version constraint cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrInvalidVersion is returned when a version string is not a valid PEP 440 version.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidMarker is returned when an environment marker expression cannot be parsed.
	ErrInvalidMarker = zerr.New("invalid environment marker")

	// ErrMalformedRequiresDist is returned when a Requires-Dist entry in a wheel cannot be parsed.
	ErrMalformedRequiresDist = zerr.New("malformed Requires-Dist entry")

	// ErrAbsoluteDataFileDestination is returned when a data_files destination is an absolute path.
	ErrAbsoluteDataFileDestination = zerr.New("data_files destination is absolute")

	// ErrDataFileDestinationEscapes is returned when a data_files destination leaves the data directory.
	ErrDataFileDestinationEscapes = zerr.New("data_files destination escapes the data directory")

	// ErrDataFileNotFound is returned when a data_files source does not exist.
	ErrDataFileNotFound = zerr.New("data_files source not found")

	// ErrDataFileNotRegular is returned when a data_files source is not a regular file.
	ErrDataFileNotRegular = zerr.New("data_files source is not a file")

	// ErrResolutionFailed is returned when the dependency solver cannot produce a resolution.
	ErrResolutionFailed = zerr.New("dependency resolution failed")

	// ErrWheelNotFound is returned when the wheel path does not point to a regular file.
	ErrWheelNotFound = zerr.New("wheel not found")

	// ErrWheelReadFailed is returned when a wheel archive cannot be read.
	ErrWheelReadFailed = zerr.New("failed to read wheel")

	// ErrWheelMetadataMissing is returned when a wheel has no METADATA entry.
	ErrWheelMetadataMissing = zerr.New("wheel does not contain a METADATA file")

	// ErrWheelWriteFailed is returned when the rewritten wheel cannot be written.
	ErrWheelWriteFailed = zerr.New("failed to write wheel")

	// ErrWheelBuildFailed is returned when the base wheel cannot be built.
	ErrWheelBuildFailed = zerr.New("failed to build wheel")

	// ErrWheelValidationFailed is returned when a wheel does not match the project.
	ErrWheelValidationFailed = zerr.New("wheel validation failed")

	// ErrContainerValidationFailed is returned when a container's installed packages do not match the project.
	ErrContainerValidationFailed = zerr.New("container validation failed")

	// ErrContainerEngineNotFound is returned when no container engine is available.
	ErrContainerEngineNotFound = zerr.New("no container engine found (tried docker, podman)")

	// ErrInvalidSettings is returned when .blix.yaml contains an unsupported value.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrStoreReadFailed is returned when the build record store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build records")

	// ErrStoreWriteFailed is returned when the build record store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build records")
)
