package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSite_ValidateName(t *testing.T) {
	valid := []string{"default", "shop-en", "a", "site_2"}
	for _, name := range valid {
		s := &Site{Name: name}
		assert.NoError(t, s.ValidateName(), name)
	}

	invalid := []string{"", "Shop", "-lead", "has space", "x/y"}
	for _, name := range invalid {
		s := &Site{Name: name}
		assert.Error(t, s.ValidateName(), name)
	}
}

func TestSite_BaseURL(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"/":     "",
		"/en":   "/en",
		"en/":   "/en",
		" /fr ": "/fr",
		"/a/b/": "/a/b",
	}
	for in, want := range tests {
		s := &Site{RelativePath: in}
		assert.Equal(t, want, s.BaseURL(), "relative path %q", in)
	}
}
