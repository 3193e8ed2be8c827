package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Electronics", "electronics"},
		{"two words", "Home Decor", "home-decor"},
		{"ampersand", "Kids & Toys", "kids-and-toys"},
		{"apostrophe", "Men's Shoes", "mens-shoes"},
		{"double quotes", `The "Best" Deals`, "the-best-deals"},
		{"extra whitespace", "  Garden   Tools  ", "garden-tools"},
		{"already a slug", "garden-tools", "garden-tools"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, Generate("Kids & Toys"), Generate("Kids & Toys"))
}
