package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoName(t *testing.T) {
	for name, want := range map[string]string{
		"Movie":          "Movie",
		"ACTED_IN":       "ActedIn",
		"code:Repo":      "CodeRepo",
		"release-window": "ReleaseWindow",
		"movie_series_2": "MovieSeries2",
	} {
		assert.Equal(t, want, GoName(name), "entity %q", name)
	}
}

func TestBuildAccessorsSortsByEntity(t *testing.T) {
	accs, err := buildAccessors([]string{"Person", "Movie"})
	assert.NoError(t, err)
	assert.Equal(t, "Movie", accs[0].Entity)
	assert.Equal(t, "movie", accs[0].Ident)
	assert.Equal(t, "Person", accs[1].Entity)
}
