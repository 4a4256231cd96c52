// Package update checks for and installs newer kp releases.
package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
)

// Repository is the GitHub slug releases are published under.
const Repository = "pengelbrecht/keypad"

// InstallMethod describes how the running binary was installed.
type InstallMethod int

const (
	InstallDirect InstallMethod = iota
	InstallHomebrew
	InstallGoInstall
)

// String returns the string representation of the install method.
func (m InstallMethod) String() string {
	switch m {
	case InstallHomebrew:
		return "homebrew"
	case InstallGoInstall:
		return "go install"
	default:
		return "direct"
	}
}

// Release is a published version.
type Release struct {
	Version string
}

// DetectInstallMethod inspects the executable path.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallDirect
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return installMethodFor(exe)
}

func installMethodFor(exe string) InstallMethod {
	path := filepath.ToSlash(exe)
	switch {
	case strings.Contains(path, "/Cellar/") || strings.Contains(path, "/homebrew/") || strings.Contains(path, "/linuxbrew/"):
		return InstallHomebrew
	case strings.Contains(path, "/go/bin/"):
		return InstallGoInstall
	default:
		return InstallDirect
	}
}

// CheckForUpdate reports the latest release and whether it is newer than current.
func CheckForUpdate(ctx context.Context, current string) (Release, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(Repository))
	if err != nil {
		return Release{}, false, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return Release{}, false, nil
	}

	release := Release{Version: latest.Version()}
	if isDevVersion(current) {
		return release, true, nil
	}
	return release, !latest.LessOrEqual(current), nil
}

// Update replaces the running executable with the latest release.
func Update(ctx context.Context, current string) (Release, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(Repository))
	if err != nil {
		return Release{}, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return Release{}, errors.New("no release found for this platform")
	}
	if !isDevVersion(current) && latest.LessOrEqual(current) {
		return Release{Version: latest.Version()}, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return Release{}, fmt.Errorf("locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return Release{}, fmt.Errorf("install %s: %w", latest.Version(), err)
	}
	return Release{Version: latest.Version()}, nil
}

func isDevVersion(v string) bool {
	return v == "" || v == "dev"
}
