// internal/adapters/out/gcs/helper_repository_gcs.go
package gcs

import "strings"

// sanitizePathSegment normalizes a path segment for GCS object paths.
// - removes separators
// - trims dots/spaces
func sanitizePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// prohibit separators
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "/", "_")
	// trim dots/spaces to avoid weird paths
	s = strings.Trim(s, ". ")
	return s
}
