// Package keywords извлекает ключевые слова из текста описаний товаров.
//
// Извлечение — чёрный ящик "текст → набор ключевых слов": дефолтная
// реализация здесь эвристическая (HTML → текст, токенизация, фильтр
// стоп-слов), но потребители зависят только от интерфейса Extractor
// и могут подставить полноценный POS-теггер.
package keywords

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Extractor — контракт извлечения ключевых слов.
type Extractor interface {
	Extract(text string) []string
}

// Heuristic — дефолтный извлекатель.
//
// Алгоритм: убрать HTML разметку, разбить на токены, оставить
// чисто буквенные токены длиной от MinLength, отфильтровать стоп-слова,
// убрать дубликаты с сохранением порядка первого вхождения.
type Heuristic struct {
	MinLength int
	stops     map[string]struct{}
}

// NewHeuristic создает извлекатель с базовым английским списком стоп-слов.
func NewHeuristic() *Heuristic {
	stops := make(map[string]struct{}, len(defaultStopwords))
	for _, s := range defaultStopwords {
		stops[s] = struct{}{}
	}
	return &Heuristic{MinLength: 3, stops: stops}
}

// Extract возвращает ключевые слова текста.
//
// Детерминирован: одинаковый вход — одинаковый выход в том же порядке.
func (h *Heuristic) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	plain := StripHTML(text)

	tokens := strings.FieldsFunc(plain, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	seen := make(map[string]struct{})
	var keywords []string
	for _, tok := range tokens {
		if len([]rune(tok)) < h.MinLength {
			continue
		}
		lower := strings.ToLower(tok)
		if _, isStop := h.stops[lower]; isStop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		keywords = append(keywords, tok)
	}

	return keywords
}

// StripHTML убирает разметку, оставляя текстовое содержимое.
//
// При ошибке парсинга возвращает исходную строку как есть.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
