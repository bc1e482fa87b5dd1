package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEllipsize(t *testing.T) {
	b := NewBuffer(80, 1)
	assert.Equal(t, "short", Ellipsize(b, "short", 10))
	assert.Equal(t, "long te…", Ellipsize(b, "long text here", 8))
	assert.Equal(t, "…", Ellipsize(b, "anything", 1))
}

func TestFitWords(t *testing.T) {
	b := NewBuffer(80, 1)
	assert.Equal(t, "fits fine", FitWords(b, "fits fine", 20))
	assert.Equal(t, "trimmed", FitWords(b, "  trimmed  ", 20))
	assert.Equal(t, "", FitWords(b, "whatever", 0))

	// whole words dropped from the tail
	assert.Equal(t, "London Paddington…", FitWords(b, "London Paddington Departures Board", 20))

	// a single over-long word falls back to character trimming
	assert.Equal(t, "Llanfairpwllgwyngyl…", FitWords(b, "Llanfairpwllgwyngyllgogerychwyrndrobwll", 20))
}
