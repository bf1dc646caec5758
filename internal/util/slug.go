// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	// Matches spaces, underscores, and slashes (replaced with dashes).
	separatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches anything that is not a lowercase letter, digit, or dash.
	invalidCharRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches runs of dashes.
	dashRunRe = regexp.MustCompile(`-+`)
)

// NormalizeSlug converts free-form input into a canonical URL slug.
// Slugs are the public identity of resources and categories, so the
// same input must always normalize to the same output:
//
//	"Unity Shader Pack"  → "unity-shader-pack"
//	"unity_shader_pack"  → "unity-shader-pack"
//	"  Ultra -- HD!  "   → "ultra-hd"
func NormalizeSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = separatorRe.ReplaceAllString(s, "-")
	s = invalidCharRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is already in canonical slug form.
func IsValidSlug(s string) bool {
	return s != "" && s == NormalizeSlug(s)
}
