// Package apply реализует движок применения фасетов к товарам.
//
// Приоритет решений на пару (товар, фасет) строго фиксирован:
// детерминированный матчинг по тегам → LLM классификатор → политика
// required/default. Движок порождает новые LabeledProduct записи,
// входные товары не мутируются.
package apply

import (
	"strings"
	"unicode"
)

// MatchTags сканирует теги товара против allowed_values фасета.
//
// Два правила, оба намеренные:
//   - тег вида key:value — разбивается по ПЕРВОМУ разделителю; key
//     сравнивается с именем фасета без учёта регистра, value должен
//     точно (после чистки) входить в allowed
//   - голый тег без разделителя — после чистки проверяется на прямое
//     членство в allowed независимо от имени фасета: явные key:value
//     теги однозначны, голые — оппортунистические совпадения
//
// Порядок результата = порядок появления тегов, дубликаты возможны —
// дедупликация на совести вызывающего. Функция чистая.
func MatchTags(tags []string, facetName string, allowed []string) []string {
	var matches []string

	for _, tag := range tags {
		if idx := strings.Index(tag, ":"); idx != -1 {
			key := cleanTagPart(tag[:idx])
			value := cleanTagPart(tag[idx+1:])
			if strings.EqualFold(key, facetName) && containsValue(allowed, value) {
				matches = append(matches, value)
			}
		} else {
			value := cleanTagPart(tag)
			if containsValue(allowed, value) {
				matches = append(matches, value)
			}
		}
	}

	return matches
}

// cleanTagPart убирает ведущие/замыкающие не-словесные символы.
//
// "Словесные" — буквы, цифры и подчёркивание; внутренние символы
// не трогаются ("T-Shirt" остаётся "T-Shirt").
func cleanTagPart(part string) string {
	return strings.TrimFunc(strings.TrimSpace(part), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func containsValue(allowed []string, value string) bool {
	if value == "" {
		return false
	}
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
