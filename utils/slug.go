package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// TeamSlug builds the URL-safe identifier stored on teams, e.g. "T1 Academy" -> "t1-academy".
func TeamSlug(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// ExportKey builds the object key for an exported report.
func ExportKey(kind, name, stamp string) string {
	return strings.Join([]string{kind, slug.Make(name), stamp + ".json"}, "/")
}
