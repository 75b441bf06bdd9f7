package workspace

import (
	"path"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	semverPrefixConstant    = "v"
	stableMajorVersionFloor = "v1"
)

// LifecycleState is the release phase a package is currently in.
type LifecycleState string

const (
	LifecycleUnreleasedPreview LifecycleState = "unreleased-preview"
	LifecyclePreview           LifecycleState = "preview"
	LifecyclePreparedStable    LifecycleState = "prepared-stable"
	LifecycleReleasedStable    LifecycleState = "released-stable"
)

// DetectLifecycleState derives the lifecycle state from the package identity and manifest fields.
//
// A stable release wins over every other signal. Without the preview suffix
// the package has already been renamed for stable. A private preview package
// has not been published yet.
func DetectLifecycleState(identity string, version string, private bool, previewSuffix string) LifecycleState {
	switch {
	case IsStableVersion(version):
		return LifecycleReleasedStable
	case !HasPhaseSuffix(identity, previewSuffix):
		return LifecyclePreparedStable
	case private:
		return LifecycleUnreleasedPreview
	default:
		return LifecyclePreview
	}
}

// IsStableVersion reports whether version is a valid semantic version at major one or above without a prerelease.
func IsStableVersion(version string) bool {
	canonicalVersion := semverPrefixConstant + strings.TrimPrefix(strings.TrimSpace(version), semverPrefixConstant)
	if !semver.IsValid(canonicalVersion) {
		return false
	}
	if len(semver.Prerelease(canonicalVersion)) > 0 {
		return false
	}
	return semver.Compare(semver.Major(canonicalVersion), stableMajorVersionFloor) >= 0
}

// HasPhaseSuffix reports whether value ends with the preview suffix.
func HasPhaseSuffix(value string, previewSuffix string) bool {
	return len(previewSuffix) > 0 && strings.HasSuffix(value, previewSuffix) && len(value) > len(previewSuffix)
}

// StripPhaseSuffix removes the preview suffix from an identity.
func StripPhaseSuffix(identity string, previewSuffix string) string {
	if !HasPhaseSuffix(identity, previewSuffix) {
		return identity
	}
	return strings.TrimSuffix(identity, previewSuffix)
}

// StripRootPhaseSuffix removes the preview suffix from the last segment of a project root.
func StripRootPhaseSuffix(root string, previewSuffix string) string {
	parentDirectory, baseName := path.Split(root)
	return parentDirectory + StripPhaseSuffix(baseName, previewSuffix)
}
