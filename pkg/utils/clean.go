// Вспомогательные функции для очистки ответов LLM.
//
// Модель может обернуть ответ в markdown кодовые блоки или добавить
// лишние пустые строки — перед парсингом ответ нормализуется.
package utils

import (
	"strings"
)

// CleanCodeFence удаляет markdown-обёртку вокруг ответа.
//
// LLM часто возвращает списки обёрнутыми в кодовые блоки:
//
//	```
//	Color: Red, Blue
//	```
//
// Эта функция очищает такие обёртки, возвращая чистый текст.
func CleanCodeFence(s string) string {
	s = strings.TrimSpace(s)

	// Удаляем ```lang в начале (```text, ```yaml и т.д.)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx != -1 {
			// Первая строка после ``` — возможный language hint
			firstLine := strings.TrimSpace(s[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, ":,") {
				s = s[idx+1:]
			}
		}
	}

	// Удаляем ``` в конце
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// NormalizeLines выполняет построчную очистку вывода LLM.
//
// Применяет несколько шагов очистки:
//  1. Удаляет markdown code fence
//  2. Удаляет лишние пробелы в начале/конце строк
//  3. Удаляет пустые строки
//
// Используется перед построчным парсингом ответов discovery-запросов.
func NormalizeLines(s string) []string {
	s = CleanCodeFence(s)

	lines := strings.Split(s, "\n")
	var nonEmpty []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	return nonEmpty
}

// SplitCommaList разбивает ответ модели на значения по запятым.
//
// Пустые токены отбрасываются, каждый токен обрезается по пробелам.
//
// Примеры:
//
//	SplitCommaList("Red, Blue") → ["Red", "Blue"]
//	SplitCommaList(" Red ,, ") → ["Red"]
func SplitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
