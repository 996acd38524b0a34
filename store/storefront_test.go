package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorefrontID(t *testing.T) {
	t.Parallel()

	id, ok := StorefrontID("us")
	assert.True(t, ok)
	assert.Equal(t, "143441", id)

	_, ok = StorefrontID("zz")
	assert.False(t, ok)
}

func TestCountryForStorefront(t *testing.T) {
	t.Parallel()

	country, ok := CountryForStorefront("143443")
	assert.True(t, ok)
	assert.Equal(t, "de", country)

	_, ok = CountryForStorefront("000000")
	assert.False(t, ok)
}

func TestCountriesContainsKnownRegions(t *testing.T) {
	t.Parallel()

	countries := Countries()
	assert.Contains(t, countries, "us")
	assert.Contains(t, countries, "jp")
	assert.Contains(t, countries, "gb")
}
