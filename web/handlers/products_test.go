package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSearchParams(t *testing.T) {
	params := productSearchParams("coffee", 10)
	assert.Equal(t, "coffee", params.Get("name:like"))
	assert.Equal(t, "10", params.Get("limit"))
	assert.Equal(t, "true", params.Get("is_visible"))
	assert.Equal(t, "images", params.Get("include"))

	// Out-of-range limits fall back to the default
	assert.Equal(t, "20", productSearchParams("", 0).Get("limit"))
	assert.Equal(t, "20", productSearchParams("", 500).Get("limit"))

	// No keyword means no name filter at all
	_, filtered := productSearchParams("", 10)["name:like"]
	assert.False(t, filtered)
}
