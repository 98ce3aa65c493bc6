package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ilkoid/facet-ai/pkg/llm"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

// ExistingFacet — пара имя/значения для контекста discovery-промпта.
type ExistingFacet struct {
	Name   string
	Values []string
}

// FacetProposal — предложенный моделью новый фасет.
type FacetProposal struct {
	Name   string
	Values []string
}

// SuggestValues запрашивает у модели новые значения для существующего фасета.
//
// Возвращает до 5 кандидатов. Пустой результат — легитимный ответ
// ("None" или сбой провайдера).
func (c *Classifier) SuggestValues(ctx context.Context, keywords []string, facetName string, existingValues []string, company string) ([]string, error) {
	prompt := buildValueSuggestionPrompt(strings.Join(keywords, " "), facetName, existingValues, company)

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Model:       c.model,
		Temperature: discoveryTemperature,
		MaxTokens:   c.maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		utils.Error("value suggestion failed", "facet", facetName, "error", err)
		return nil, fmt.Errorf("suggest values for %q: %w", facetName, err)
	}

	values := ParseValueList(utils.CleanCodeFence(resp))
	if len(values) > maxSuggestedValues {
		values = values[:maxSuggestedValues]
	}
	return values, nil
}

// SuggestFacets запрашивает у модели целиком новые фасеты со значениями.
//
// Возвращает до 10 предложений, до 5 значений в каждом, в порядке
// следования строк ответа.
func (c *Classifier) SuggestFacets(ctx context.Context, keywords []string, existing []ExistingFacet, company string) ([]FacetProposal, error) {
	prompt := buildNewFacetsPrompt(strings.Join(keywords, " "), existing, company)

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Model:       c.model,
		Temperature: discoveryTemperature,
		MaxTokens:   c.maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		utils.Error("facet suggestion failed", "error", err)
		return nil, fmt.Errorf("suggest new facets: %w", err)
	}

	return ParseFacetProposals(resp), nil
}

// ParseFacetProposals разбирает ответ формата "Facet Name: Value1, Value2".
//
// Строки без двоеточия пропускаются. "none" целиком → пусто.
func ParseFacetProposals(resp string) []FacetProposal {
	if strings.EqualFold(strings.TrimSpace(resp), "none") {
		return nil
	}

	var proposals []FacetProposal
	seen := make(map[string]struct{})

	for _, line := range utils.NormalizeLines(resp) {
		idx := strings.Index(line, ":")
		if idx == -1 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}

		values := ParseValueList(line[idx+1:])
		if len(values) > maxSuggestedValues {
			values = values[:maxSuggestedValues]
		}

		seen[name] = struct{}{}
		proposals = append(proposals, FacetProposal{Name: name, Values: values})

		if len(proposals) == maxSuggestedFacets {
			break
		}
	}

	return proposals
}
