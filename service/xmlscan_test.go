package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTagIgnoresNamespacePrefix(t *testing.T) {
	cases := []struct {
		name string
		xml  string
	}{
		{"no prefix", `<locationName>Reading</locationName>`},
		{"lt4 prefix", `<lt4:locationName>Reading</lt4:locationName>`},
		{"soap prefix", `<soap:locationName>Reading</soap:locationName>`},
		{"with attributes", `<lt4:locationName xmlns:lt4="http://x">Reading</lt4:locationName>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, "Reading", ExtractTag(tc.xml, "locationName"))
		})
	}
}

func TestExtractTagMissingOrMalformed(t *testing.T) {
	assert.Equal(t, "", ExtractTag(`<a>x</a>`, "b"))
	assert.Equal(t, "", ExtractTag(``, "b"))
	assert.Equal(t, "", ExtractTag(`<unclosed`, "unclosed"))
	assert.Equal(t, "", ExtractTag(`<a>no closing tag`, "a"))
	assert.Equal(t, "", ExtractTagFrom(`<a>x</a>`, "a", 99))
}

func TestExtractTagFromOffset(t *testing.T) {
	xml := `<v>one</v><v>two</v>`
	assert.Equal(t, "one", ExtractTagFrom(xml, "v", 0))
	assert.Equal(t, "two", ExtractTagFrom(xml, "v", 10))
}

func TestNextTagIteratesSiblings(t *testing.T) {
	xml := `<lt5:service><std>10:00</std></lt5:service><lt5:service><std>10:30</std></lt5:service>`
	pos := 0

	inner, ok := NextTag(xml, "service", &pos)
	require.True(t, ok)
	assert.Equal(t, "<std>10:00</std>", inner)

	inner, ok = NextTag(xml, "service", &pos)
	require.True(t, ok)
	assert.Equal(t, "<std>10:30</std>", inner)

	_, ok = NextTag(xml, "service", &pos)
	assert.False(t, ok)
}

func TestNextTagScopedByOuterExtract(t *testing.T) {
	// Nested same-named tags are not depth-aware: callers isolate the block
	// first, then iterate within it.
	xml := `<trainServices><service>a</service><service>b</service></trainServices><busServices><service>c</service></busServices>`
	block := ExtractTag(xml, "trainServices")

	var got []string
	pos := 0
	for {
		inner, ok := NextTag(block, "service", &pos)
		if !ok {
			break
		}
		got = append(got, inner)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNextTagSkipsClosersAndUnclosed(t *testing.T) {
	pos := 0
	_, ok := NextTag(`</service><service>late</service>`, "service", &pos)
	require.True(t, ok)

	pos = 0
	_, ok = NextTag(`<service>never closed`, "service", &pos)
	assert.False(t, ok)
}
