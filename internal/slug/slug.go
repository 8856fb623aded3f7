// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings,
// including collision avoidance against an existing slug set.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// maxProbes bounds the suffix search so a pathological data set cannot
// loop forever. 10000 events sharing one title is beyond any real gallery.
const maxProbes = 10000

// Unique derives a collision-free slug from title. taken reports whether a
// candidate is already used by another record; the caller excludes the
// record's own identity so re-saving an unchanged title is idempotent.
// Candidates are probed as base, base-2, base-3, ... until one is free.
func Unique(title string, taken func(candidate string) (bool, error)) (string, error) {
	base := Generate(title)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 2; i <= maxProbes; i++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("slug probe %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("slug space exhausted for %q", base)
}
