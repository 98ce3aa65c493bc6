package keywords

// Базовый английский список стоп-слов для эвристического извлекателя.
// Намеренно короткий: цель — убрать служебные слова из промптов,
// а не построить полноценный NLP фильтр.
var defaultStopwords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "him", "his", "how",
	"man", "new", "now", "old", "see", "two", "way", "who", "its", "did",
	"get", "may", "use", "this", "that", "with", "from", "your", "have",
	"more", "will", "they", "when", "what", "were", "them", "then", "than",
	"each", "which", "their", "there", "these", "those", "been", "being",
	"into", "over", "under", "about", "after", "before", "between", "both",
	"does", "doing", "during", "further", "here", "just", "made", "make",
	"most", "only", "other", "some", "such", "through", "very", "while",
	"also", "because", "against", "where", "every", "same", "should",
	"would", "could", "per", "via", "off", "own", "too", "it", "is", "be",
	"as", "at", "by", "an", "or", "on", "of", "to", "in", "we", "a", "i",
}
