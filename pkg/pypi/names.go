/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: names.go
Description: Project name normalization for the PyPI registry client. Implements
the canonical name rules used by the index so that lookups and redirects agree
with what the registry serves.
*/

package pypi

import (
	"regexp"
	"strings"
)

// nameSeparators collapses runs of the three separator characters the
// index treats as equivalent.
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// CanonicalName normalizes a project name the way the index does:
// separator runs become a single hyphen and the result is lowercased.
// "Django_Rest.Framework" and "django-rest-framework" are the same
// project.
func CanonicalName(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, "-"))
}

// IsCanonical reports whether a name is already in canonical form.
func IsCanonical(name string) bool {
	return name == CanonicalName(name)
}
