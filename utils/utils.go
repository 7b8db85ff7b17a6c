// Package utils provides utility functions for the application.
package utils

import "strings"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// GatewayURL renders the public URL of a content identifier from a gateway template.
// Templates without a {cid} placeholder get the identifier appended as a path segment.
func GatewayURL(template, cid string) string {
	if strings.Contains(template, "{cid}") {
		return strings.ReplaceAll(template, "{cid}", cid)
	}
	return strings.TrimRight(template, "/") + "/" + cid
}

// IsProduction reports whether env names the production environment.
func IsProduction(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), EnvProduction)
}
