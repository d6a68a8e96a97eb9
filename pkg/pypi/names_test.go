/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: names_test.go
Description: Tests for project name canonicalization. Verifies separator
collapsing, lowercasing, and the idempotence of the canonical form.
*/

package pypi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanonicalName verifies the index normalization rules
func TestCanonicalName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"requests", "requests"},
		{"Django", "django"},
		{"Django_Rest.Framework", "django-rest-framework"},
		{"zope.interface", "zope-interface"},
		{"backports.functools_lru_cache", "backports-functools-lru-cache"},
		{"a---b___c...d", "a-b-c-d"},
		{"Flask-SQLAlchemy", "flask-sqlalchemy"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalName(tc.in), tc.in)
	}
}

// TestCanonicalName_Idempotent verifies canonicalizing twice is a no-op
func TestCanonicalName_Idempotent(t *testing.T) {
	for _, name := range []string{"Zope.Interface", "requests", "A__B"} {
		once := CanonicalName(name)
		assert.Equal(t, once, CanonicalName(once))
	}
}

// TestIsCanonical verifies the canonical-form check
func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("requests"))
	assert.True(t, IsCanonical("django-rest-framework"))
	assert.False(t, IsCanonical("Django"))
	assert.False(t, IsCanonical("zope.interface"))
}
