package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Watches":                      "watches",
		"Watches > Men":                "watches-men",
		"Watches > Men > Automatic":    "watches-men-automatic",
		"Gold Colour":                  "gold-colour",
		"  Rolex / Datejust II  ":      "rolex-datejust-ii",
		"---":                          "",
		"":                             "",
		"Coussin de Cartier (Édition)": "coussin-de-cartier-dition",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Watches > Men"), Slugify("watches   >   MEN"))
}
