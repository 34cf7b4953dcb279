package usecase

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugBase(t *testing.T) {
	assert.Equal(t, "cafe-munoz-events", slugBase("Café Muñoz & Events!"))
	assert.Equal(t, "proposal", slugBase("   ***  "))
	assert.LessOrEqual(t, len(slugBase("a very long company name that keeps going and going forever")), slugBaseMaxLen)
}

func TestNewSlugIsURLSafeAndRandom(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	a, err := newSlug("Desert Glow Med Spa")
	require.NoError(t, err)
	b, err := newSlug("Desert Glow Med Spa")
	require.NoError(t, err)

	assert.Regexp(t, pattern, a)
	assert.Contains(t, a, "desert-glow-med-spa-")
	assert.NotEqual(t, a, b)
}
