package apply

import (
	"context"
	"sync"

	"github.com/ilkoid/facet-ai/pkg/catalog"
	"github.com/ilkoid/facet-ai/pkg/classify"
	"github.com/ilkoid/facet-ai/pkg/facet"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

// FacetClassifier — потребительский интерфейс классификатора.
// Позволяет подставить стаб в тестах движка.
type FacetClassifier interface {
	ClassifyFacetValue(ctx context.Context, in classify.ClassifyInput) []string
}

// Engine — движок применения фасетов.
type Engine struct {
	classifier FacetClassifier
	extractor  catalog.KeywordExtractor
	workers    int
}

// NewEngine создает движок.
//
// workers — размер пула горутин по товарам; значения <= 1 дают
// последовательную обработку. Фасеты одного товара всегда обрабатываются
// последовательно: так число запросов классификатора и порядок ключей
// вывода детерминированы, а несвязанные товары не ждут друг друга.
func NewEngine(classifier FacetClassifier, extractor catalog.KeywordExtractor, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		classifier: classifier,
		extractor:  extractor,
		workers:    workers,
	}
}

// Apply применяет схему фасетов ко всем товарам.
//
// Порядок результата равен порядку входа независимо от порядка завершения
// воркеров: результаты пишутся по индексу. Единственное разделяемое
// состояние — итоговый срез, каждая горутина пишет только свой индекс.
func (e *Engine) Apply(ctx context.Context, products []catalog.Product, schema *facet.Schema) ([]LabeledProduct, error) {
	results := make([]LabeledProduct, len(products))

	if e.workers == 1 {
		for i, p := range products {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.labelProduct(ctx, p, schema)
		}
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.labelProduct(ctx, products[i], schema)
			}
		}()
	}

	for i := range products {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// labelProduct решает все фасеты схемы для одного товара.
//
// Приоритет на фасет: тег-матчер → классификатор (если allowed_values
// непустой) → default для required. Required фасет без default, по
// которому оба матчера промолчали, легитимно остаётся пустым —
// это зафиксированный пробел политики, а не сбой; он логируется.
func (e *Engine) labelProduct(ctx context.Context, p catalog.Product, schema *facet.Schema) LabeledProduct {
	assignments := NewFacetAssignments()

	// Суммаризация ленивая: если все фасеты закрылись тегами,
	// текст не строится вовсе.
	productText := ""

	for _, facetName := range schema.Names() {
		def, _ := schema.Get(facetName)

		matched := MatchTags(p.Tags, facetName, def.AllowedValues)

		if len(matched) == 0 && len(def.AllowedValues) > 0 {
			if productText == "" {
				productText = catalog.Summarize(p, e.extractor)
			}
			matched = e.classifier.ClassifyFacetValue(ctx, classify.ClassifyInput{
				ProductText:      productText,
				FacetName:        facetName,
				CandidateValues:  def.AllowedValues,
				MultiValued:      def.MultiValued,
				RequiredResponse: def.RequiredResponse(),
				Vendor:           p.Vendor,
			})
		}

		if len(matched) == 0 && def.Required {
			if def.DefaultValue != nil {
				matched = []string{*def.DefaultValue}
			} else {
				utils.Warn("required facet left unassigned: no match and no default",
					"product_id", p.ID,
					"facet", facetName)
			}
		}

		matched = dedupe(matched)
		if !def.MultiValued && len(matched) > 1 {
			utils.Debug("single-valued facet matched multiple values, keeping first",
				"product_id", p.ID,
				"facet", facetName,
				"values", len(matched))
			matched = matched[:1]
		}

		assignments.Add(facetName, matched)
	}

	return LabeledProduct{
		ID:     p.ID,
		Title:  p.Title,
		Facets: assignments,
	}
}

// dedupe убирает дубликаты с сохранением порядка первого вхождения.
// Вход не модифицируется: классификатор мог вернуть разделяемый срез.
func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
