// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage turns opaque media locators into absolute, publicly
// fetchable URLs and manages the underlying objects. The URL strategy is
// pluggable: an S3-compatible bucket or a hosted delivery host, selected
// by deployment configuration.
package storage

import (
	"strings"

	"eventfolio/internal/models"
)

// Resolver resolves a media locator into an absolute URL a client can
// fetch directly. The media type is part of the contract because image and
// video may route through different delivery paths.
type Resolver interface {
	FileURL(key string, mediaType models.MediaType) string
}

// BaseURLResolver builds URLs by joining a configured delivery host with
// the object key. Videos and images are routed through separate path
// segments, matching hosted-media providers that transcode per resource type.
type BaseURLResolver struct {
	baseURL string
}

// NewBaseURLResolver creates a resolver rooted at baseURL.
func NewBaseURLResolver(baseURL string) *BaseURLResolver {
	return &BaseURLResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// FileURL returns baseURL/{image|video}/{key}.
func (r *BaseURLResolver) FileURL(key string, mediaType models.MediaType) string {
	segment := "image"
	if mediaType == models.MediaTypeVideo {
		segment = "video"
	}
	return r.baseURL + "/" + segment + "/" + strings.TrimLeft(key, "/")
}
