package model

import (
	"fmt"
	"strings"
)

func getArchivePathToReleases() string {
	return fmt.Sprint("releases/")
}

// GetArchivePathPrefixToReleases yields the key prefix under which all
// pending release records live
func GetArchivePathPrefixToReleases() string {
	return getArchivePathToReleases()
}

// GetArchivePathToRelease yields the key of the record owned by a change
func GetArchivePathToRelease(change string) string {
	return fmt.Sprint(getArchivePathToReleases(), change, ".yaml")
}

// GetArchivePathComponents parses a record key back into its change name.
// The second return value is false for keys outside the release area.
func GetArchivePathComponents(archivePath string) (string, bool) {
	if !strings.HasPrefix(archivePath, getArchivePathToReleases()) {
		return "", false
	}
	name := strings.TrimPrefix(archivePath, getArchivePathToReleases())
	if !strings.HasSuffix(name, ".yaml") {
		return "", false
	}
	name = strings.TrimSuffix(name, ".yaml")
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
