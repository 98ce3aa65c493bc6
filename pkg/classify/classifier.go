// Package classify оборачивает LLM провайдера в стабильный контракт
// классификатора фасетов.
//
// Две дисциплины температуры — это осознанный, тестируемый контракт:
//   - классификация значения фасета: temperature 0 (детерминированная)
//   - discovery-запросы (новые значения/фасеты): temperature 0.2 (креативная)
//
// Сбой провайдера при классификации не является ошибкой для вызывающего:
// адаптер логирует и возвращает пустой результат, движок трактует это
// как "совпадений нет". Живучесть прогона важнее полноты разметки.
package classify

import (
	"context"
	"strings"

	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/llm"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

const (
	// Температура discovery-запросов. Классификация всегда идёт с нулём.
	discoveryTemperature = 0.2

	maxSuggestedValues = 5
	maxSuggestedFacets = 10
)

// Classifier — адаптер текстового классификатора поверх llm.Provider.
type Classifier struct {
	provider  llm.Provider
	model     string
	maxTokens int
}

// New создает классификатор для конкретной модели.
func New(provider llm.Provider, modelDef config.ModelDef) *Classifier {
	return &Classifier{
		provider:  provider,
		model:     modelDef.ModelName,
		maxTokens: modelDef.MaxTokens,
	}
}

// ClassifyInput — параметры одного запроса классификации (товар, фасет).
type ClassifyInput struct {
	ProductText      string   // суммаризованное описание товара
	FacetName        string
	CandidateValues  []string // allowed_values фасета, непустой
	MultiValued      bool
	RequiredResponse bool // true только когда фасет required и без default
	Vendor           string
}

// ClassifyFacetValue выполняет ровно один запрос классификации.
//
// Без ретраев, без backoff, без кэширования между прогонами.
// Сбой транспорта/провайдера → пустой результат + лог, никогда не ошибка.
func (c *Classifier) ClassifyFacetValue(ctx context.Context, in ClassifyInput) []string {
	prompt := buildAssignmentPrompt(in)

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   c.maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		utils.Error("facet classification failed, treating as no match",
			"facet", in.FacetName,
			"error", err)
		return nil
	}

	return ParseValueList(resp)
}

// ParseValueList разбирает ответ классификатора в список значений.
//
// Правила: trim; "none" (без учёта регистра) → пусто; иначе разбивка
// по запятым, пустые токены и токены "none" отбрасываются.
func ParseValueList(resp string) []string {
	resp = strings.TrimSpace(resp)
	if resp == "" || strings.EqualFold(resp, "none") {
		return nil
	}

	var values []string
	for _, v := range utils.SplitCommaList(resp) {
		if strings.EqualFold(v, "none") {
			continue
		}
		values = append(values, v)
	}
	return values
}

// vendorOrUnknown возвращает вендора или "Unknown Vendor".
func vendorOrUnknown(vendor string) string {
	if strings.TrimSpace(vendor) == "" {
		return "Unknown Vendor"
	}
	return vendor
}

// companyOrUnknown возвращает название компании для discovery-промптов.
func companyOrUnknown(company string) string {
	if strings.TrimSpace(company) == "" || company == "Unknown Company" {
		return "an unknown company"
	}
	return company
}
