package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>¡Golazo de   Messi!</p>", "golazo de messi"},
		{"Mirá https://example.com/nota?id=1 y www.foo.com/bar ahora", "mirá y ahora"},
		{"Resultado: 2-1 (final)", "resultado 2 1 final"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "Normalize(%q)", c.in)
	}
}

func TestShingles(t *testing.T) {
	s := Shingles("uno dos tres cuatro", 3)
	assert.Len(t, s, 2)
	assert.Contains(t, s, "uno dos tres")
	assert.Contains(t, s, "dos tres cuatro")

	assert.Empty(t, Shingles("uno dos", 3))
	assert.Len(t, Shingles("uno dos tres cuatro", 0), 2, "k <= 0 falls back to the default size")
}

func TestJaccardSimilarity(t *testing.T) {
	a := "El equipo local ganó el partido por dos goles a uno en el último minuto"
	b := "El equipo visitante perdió el partido por dos goles a uno en el último minuto"
	c := "La selección anunció la lista de convocados para la próxima fecha"

	pairs := [][2]string{{a, b}, {a, c}, {b, c}, {a, ""}, {"", ""}, {"<p>" + a + "</p>", a}}
	for _, p := range pairs {
		ab := JaccardSimilarity(p[0], p[1], 3)
		ba := JaccardSimilarity(p[1], p[0], 3)
		assert.Equal(t, ab, ba, "symmetry for %q / %q", p[0], p[1])
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	}

	assert.Equal(t, 1.0, JaccardSimilarity(a, a, 3))
	assert.Equal(t, 1.0, JaccardSimilarity("<p>"+a+"</p>", a+" https://example.com", 3))
	assert.Equal(t, 0.0, JaccardSimilarity("", "anything at all here", 3))
	assert.Equal(t, 0.0, JaccardSimilarity("dos palabras", "dos palabras", 3))
	assert.Equal(t, 0.0, JaccardSimilarity(a, c, 3))

	sim := JaccardSimilarity(a, b, 3)
	assert.Greater(t, sim, 0.5)
	assert.Less(t, sim, 1.0)
}
