// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes category ids. A category id doubles as its
// storage folder name, so it is limited to lowercase ASCII letters, digits
// and single hyphens.
package slug

import (
	"regexp"
	"strings"
)

var (
	// separators are turned into hyphens before anything else is dropped.
	separators = regexp.MustCompile(`[\s_]+`)
	// nonAlphanumeric matches anything that isn't a letter, digit, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Bar Mat_2026!" → "bar-mat-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// IsValid reports whether s is a non-empty slug that Generate leaves as is.
func IsValid(s string) bool {
	return s != "" && Generate(s) == s
}
