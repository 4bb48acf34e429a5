package generate

import (
	"math/rand/v2"
	"slices"
)

const (
	Random = "Random"

	DefaultDifficulty = "B1"
	DefaultGenre      = "Adventure"
	DefaultTopic      = "a random adventure"

	MinVocabCount = 5
	MaxVocabCount = 50
	// MaxKnownWords caps the excluded words passed to the model.
	MaxKnownWords = 50
)

//nolint:gochecknoglobals // read-only option lists
var (
	Difficulties = []string{"A1", "A2", "B1", "B2", "C1", "C2"}
	Genres       = []string{
		"Adventure", "Fantasy", "Sci-Fi", "Mystery", "Horror", "Romance",
		"History", "Comedy", "Drama", "Crime", "Biography",
	}
)

func ValidDifficulty(d string) bool {
	return d == Random || slices.Contains(Difficulties, d)
}

func ValidGenre(g string) bool {
	return g == Random || slices.Contains(Genres, g)
}

// Pick returns a random element of values.
func Pick(values []string) string {
	return values[rand.IntN(len(values))] //nolint:gosec // not security sensitive
}

func resolve(value string, values []string) string {
	if value == Random {
		return Pick(values)
	}
	return value
}
