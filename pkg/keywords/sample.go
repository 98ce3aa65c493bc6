package keywords

import "math/rand"

// Sample возвращает равномерную выборку без возвращения размером не более n.
//
// Выборка нужна только чтобы ограничить размер входа классификатора —
// криптографическое качество не требуется, подходит любой равномерный
// источник. Вход не модифицируется.
func Sample(tokens []string, n int, rng *rand.Rand) []string {
	if n >= len(tokens) {
		out := make([]string, len(tokens))
		copy(out, tokens)
		return out
	}

	shuffled := make([]string, len(tokens))
	copy(shuffled, tokens)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}
