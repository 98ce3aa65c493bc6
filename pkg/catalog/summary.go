package catalog

import (
	"fmt"
	"strings"
)

// KeywordExtractor — чёрный ящик "текст → ключевые слова".
// Реализация по умолчанию живёт в pkg/keywords.
type KeywordExtractor interface {
	Extract(text string) []string
}

// Summarize собирает компактное текстовое описание товара для классификатора.
//
// Поля идут в фиксированном порядке: преамбула вендора, заголовок, ключевые
// слова описания, опции, диапазон цен, handle, тип товара, сырые теги.
// Отсутствующие поля пропускаются целиком, без placeholder-ов.
//
// Функция детерминирована и не имеет побочных эффектов (при
// детерминированном extractor). Текст никогда не обрезается здесь:
// ограничение длины — забота границы классификатора.
func Summarize(p Product, extractor KeywordExtractor) string {
	var parts []string

	if p.Vendor != "" {
		parts = append(parts, fmt.Sprintf("We are categorizing products from %s.", p.Vendor))
	}

	parts = append(parts, fmt.Sprintf("Title: %s", p.Title))

	if p.BodyHTML != "" {
		keywords := extractor.Extract(p.BodyHTML)
		if len(keywords) > 0 {
			parts = append(parts, fmt.Sprintf("Description Keywords: %s", strings.Join(keywords, ", ")))
		}
	}

	if len(p.Options) > 0 {
		var optionStrings []string
		for _, opt := range p.Options {
			if opt.Name == "" && len(opt.Values) == 0 {
				continue
			}
			optionStrings = append(optionStrings, fmt.Sprintf("%s: %s", opt.Name, strings.Join(opt.Values, ", ")))
		}
		if len(optionStrings) > 0 {
			parts = append(parts, fmt.Sprintf("Options: %s", strings.Join(optionStrings, "; ")))
		}
	}

	if p.PriceRange != nil {
		parts = append(parts, fmt.Sprintf("Price Range: $%v - $%v", p.PriceRange.MinPrice, p.PriceRange.MaxPrice))
	}

	if p.Handle != "" {
		parts = append(parts, fmt.Sprintf("Handle: %s", p.Handle))
	}

	if p.ProductType != "" {
		parts = append(parts, fmt.Sprintf("Product Type: %s", p.ProductType))
	}

	if len(p.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(p.Tags, ", ")))
	}

	return strings.Join(parts, "\n")
}
