package discover

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ilkoid/facet-ai/pkg/catalog"
	"github.com/ilkoid/facet-ai/pkg/classify"
	"github.com/ilkoid/facet-ai/pkg/facet"
	"github.com/ilkoid/facet-ai/pkg/keywords"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

// Policy — режим подтверждения предложений.
type Policy string

const (
	PolicyNo  Policy = "no"  // фаза пропускается целиком
	PolicyYes Policy = "yes" // каждое предложение принимается автоматически
	PolicyAsk Policy = "ask" // подтверждение по каждому элементу
)

// ParsePolicy разбирает значение флага (без учёта регистра).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyNo:
		return PolicyNo, nil
	case PolicyYes:
		return PolicyYes, nil
	case PolicyAsk:
		return PolicyAsk, nil
	}
	return "", fmt.Errorf("invalid suggestion policy %q: must be 'no', 'yes' or 'ask'", s)
}

// Suggester — потребительский интерфейс discovery-операций классификатора.
type Suggester interface {
	SuggestValues(ctx context.Context, kw []string, facetName string, existingValues []string, company string) ([]string, error)
	SuggestFacets(ctx context.Context, kw []string, existing []classify.ExistingFacet, company string) ([]classify.FacetProposal, error)
}

// Статическая проверка что классификатор реализует контракт.
var _ Suggester = (*classify.Classifier)(nil)

// Максимум токенов ключевых слов в одном discovery-промпте.
const keywordSampleSize = 300

// Session — discovery-сессия над каталогом.
type Session struct {
	suggester Suggester
	prompter  Prompter
	extractor catalog.KeywordExtractor
	rng       *rand.Rand
	announce  func(string)
}

// NewSession создает сессию.
//
// prompter используется только в режиме ask; в режимах no/yes он может
// быть nil. announce — канал информационных сообщений пользователю
// (nil → сообщения только в лог).
func NewSession(suggester Suggester, prompter Prompter, extractor catalog.KeywordExtractor, announce func(string)) *Session {
	return &Session{
		suggester: suggester,
		prompter:  prompter,
		extractor: extractor,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		announce:  announce,
	}
}

// SetRand заменяет источник случайности выборки (для тестов).
func (s *Session) SetRand(rng *rand.Rand) {
	s.rng = rng
}

func (s *Session) say(msg string) {
	if s.announce != nil {
		s.announce(msg)
	}
	utils.Info("discovery", "msg", msg)
}

// gatherKeywords собирает ключевые слова со всех описаний каталога
// и возвращает равномерную выборку без возвращения.
//
// Выборка ограничивает размер входа классификатора; свежая выборка
// снимается на каждый discovery-запрос.
func (s *Session) gatherKeywords(products []catalog.Product) []string {
	var all []string
	for _, p := range products {
		if p.BodyHTML == "" {
			continue
		}
		all = append(all, s.extractor.Extract(p.BodyHTML)...)
	}
	return keywords.Sample(all, keywordSampleSize, s.rng)
}

// companyName возвращает вендора первого товара каталога.
func companyName(products []catalog.Product) string {
	if len(products) == 0 {
		return ""
	}
	return products[0].Vendor
}

// SuggestFacetValues предлагает новые значения для каждого существующего
// фасета схемы.
//
// Возвращает журнал принятых изменений; входная схема не мутируется.
// Сбой классификатора по одному фасету логируется и не прерывает сессию.
func (s *Session) SuggestFacetValues(ctx context.Context, products []catalog.Product, schema *facet.Schema, policy Policy) ([]Delta, error) {
	if policy == PolicyNo {
		return nil, nil
	}

	company := companyName(products)
	var deltas []Delta

	for _, facetName := range schema.Names() {
		if err := ctx.Err(); err != nil {
			return deltas, err
		}

		if policy == PolicyAsk {
			if !s.prompter.Confirm(fmt.Sprintf("Do you want to suggest new values for the facet '%s'? (y/n)", facetName)) {
				continue
			}
		}

		def, _ := schema.Get(facetName)
		kw := s.gatherKeywords(products)

		suggested, err := s.suggester.SuggestValues(ctx, kw, facetName, def.AllowedValues, company)
		if err != nil {
			// Ошибка классификатора локальна для фасета: лог + дальше
			utils.Warn("skipping facet after suggestion failure", "facet", facetName, "error", err)
			continue
		}
		if len(suggested) == 0 {
			s.say(fmt.Sprintf("No new values suggested for the facet '%s'.", facetName))
			continue
		}

		for _, value := range suggested {
			if def.HasValue(value) {
				continue
			}
			accepted := true
			if policy == PolicyAsk {
				accepted = s.prompter.Confirm(fmt.Sprintf("Do you want to add '%s' to the allowed values for the facet '%s'? (y/n)", value, facetName))
			}
			if accepted {
				deltas = append(deltas, Delta{Kind: ValueAdded, Facet: facetName, Value: value})
			}
		}
	}

	return deltas, nil
}

// SuggestNewFacets предлагает целиком новые фасеты со значениями.
//
// В режиме ask по каждому принятому фасету дополнительно собираются:
// кастомные значения (цикл до 'done'), multi_valued, required и default
// (сентинел 'none' → без дефолта). Новые фасеты до интерактивных
// уточнений имеют {multi_valued:false, required:false, default:absent}.
func (s *Session) SuggestNewFacets(ctx context.Context, products []catalog.Product, schema *facet.Schema, policy Policy) ([]Delta, error) {
	if policy == PolicyNo {
		return nil, nil
	}

	existing := make([]classify.ExistingFacet, 0, schema.Len())
	for _, name := range schema.Names() {
		def, _ := schema.Get(name)
		existing = append(existing, classify.ExistingFacet{Name: name, Values: def.AllowedValues})
	}

	kw := s.gatherKeywords(products)
	company := companyName(products)

	proposals, err := s.suggester.SuggestFacets(ctx, kw, existing, company)
	if err != nil {
		// Сбой discovery-запроса не фатален: фаза просто не даёт изменений
		utils.Warn("new facet suggestion failed, continuing without", "error", err)
		return nil, nil
	}

	var deltas []Delta

	for _, proposal := range proposals {
		if err := ctx.Err(); err != nil {
			return deltas, err
		}
		if schema.Has(proposal.Name) {
			continue
		}

		if policy == PolicyAsk {
			exampleValues := strings.Join(proposal.Values, ", ")
			if !s.prompter.Confirm(fmt.Sprintf("Do you want to add the new facet '%s'? (Example values: %s) (y/n)", proposal.Name, exampleValues)) {
				continue
			}
		}

		def := facet.Definition{}

		for _, value := range proposal.Values {
			accepted := true
			if policy == PolicyAsk {
				accepted = s.prompter.Confirm(fmt.Sprintf("Do you want to add '%s' to the allowed values for the new facet '%s'? (y/n)", value, proposal.Name))
			}
			if accepted && !def.HasValue(value) {
				def.AllowedValues = append(def.AllowedValues, value)
			}
		}

		if policy == PolicyAsk {
			if s.prompter.Confirm(fmt.Sprintf("Do you want to add your own values for the new facet '%s'? (y/n)", proposal.Name)) {
				for {
					// Исчерпание ввода завершает цикл так же, как 'done'
					custom, ok := s.prompter.ReadLine(fmt.Sprintf("Enter a value for the facet '%s' (or type 'done' to finish):", proposal.Name))
					if !ok || strings.EqualFold(custom, "done") {
						break
					}
					if custom != "" && !def.HasValue(custom) {
						def.AllowedValues = append(def.AllowedValues, custom)
					}
				}
			}

			def.MultiValued = s.prompter.Confirm(fmt.Sprintf("Should products be allowed multiple values for the new facet '%s'? (y/n)", proposal.Name))
			def.Required = s.prompter.Confirm(fmt.Sprintf("Should the new facet '%s' be required for all products? (y/n)", proposal.Name))

			defaultValue, ok := s.prompter.ReadLine(fmt.Sprintf("Enter a default value for the new facet '%s' (or type 'none' for no default):", proposal.Name))
			if ok && !strings.EqualFold(defaultValue, "none") && defaultValue != "" {
				def.DefaultValue = &defaultValue
			}
		}

		// Фасет без значений не попадает в журнал: загрузчик схемы
		// требует непустой allowed_values, и записанный документ обязан
		// читаться обратно.
		if len(def.AllowedValues) == 0 {
			utils.Warn("dropping accepted facet with no allowed values", "facet", proposal.Name)
			continue
		}

		deltas = append(deltas, Delta{Kind: FacetAdded, Facet: proposal.Name, Definition: def})
	}

	return deltas, nil
}
