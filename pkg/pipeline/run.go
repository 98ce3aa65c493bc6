// Package pipeline связывает все части прогона фасетирования:
// загрузка каталога → discovery → персист схемы → применение фасетов →
// запись артефактов.
//
// Выходные файлы пишутся только после полного завершения классификации:
// никакого частичного состояния при фатальных ошибках.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/facet-ai/pkg/apply"
	"github.com/ilkoid/facet-ai/pkg/catalog"
	"github.com/ilkoid/facet-ai/pkg/discover"
	"github.com/ilkoid/facet-ai/pkg/facet"
	"github.com/ilkoid/facet-ai/pkg/s3storage"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

// Classifier — объединённый контракт классификатора для прогона:
// применение фасетов + обе discovery-операции.
type Classifier interface {
	apply.FacetClassifier
	discover.Suggester
}

// ProductFetcher — контракт загрузки листинга с витрины магазина.
type ProductFetcher interface {
	FetchAllProducts(ctx context.Context, storeURL string) ([]catalog.RawProduct, error)
}

// Options — параметры одного прогона.
type Options struct {
	StoreURL    string // ровно один из StoreURL / ProductFile
	ProductFile string
	FacetsFile  string // YAML схема; пустая строка == схемы нет
	OutputFile  string // путь JSON результата
	SchemaOut   string // путь обновлённой YAML схемы
	SuggestVals discover.Policy
	SuggestNew  discover.Policy
	Limit       int // 0 == без ограничения
}

// Deps — инжектируемые зависимости прогона.
type Deps struct {
	Classifier Classifier
	Fetcher    ProductFetcher     // нужен только при StoreURL
	Extractor  catalog.KeywordExtractor
	Prompter   discover.Prompter  // нужен только в режиме ask
	Uploader   s3storage.Uploader // nil == выгрузка в S3 выключена
	Workers    int
	Announce   func(string) // сообщения пользователю; nil == только лог
}

func (d Deps) say(msg string) {
	if d.Announce != nil {
		d.Announce(msg)
	}
	utils.Info("pipeline", "msg", msg)
}

// Validate проверяет согласованность параметров. Нарушение — фатально,
// прогон не начинается (fail fast, никакой частичной работы).
func (o Options) Validate() error {
	if (o.StoreURL == "") == (o.ProductFile == "") {
		return fmt.Errorf("you must specify exactly one of store url or product file")
	}
	if o.FacetsFile == "" {
		if o.SuggestVals == discover.PolicyYes || o.SuggestVals == discover.PolicyAsk {
			return fmt.Errorf("cannot suggest facet values without a facets config file")
		}
		if o.SuggestNew == discover.PolicyNo {
			return fmt.Errorf("no facets provided and suggesting new facets is disabled: nothing to do")
		}
	}
	return nil
}

// Run выполняет полный прогон.
func Run(ctx context.Context, opts Options, deps Deps) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	// 1. Каталог
	products, err := loadProducts(ctx, opts, deps)
	if err != nil {
		return err
	}

	// 2. Лимит: обрабатывается только префикс в исходном порядке
	if opts.Limit > 0 && len(products) > opts.Limit {
		deps.say(fmt.Sprintf("Processing only the first %d products out of %d total products.", opts.Limit, len(products)))
		products = products[:opts.Limit]
	}

	// 3. Схема
	schema := facet.NewSchema()
	if opts.FacetsFile != "" {
		schema, err = facet.LoadSchema(opts.FacetsFile)
		if err != nil {
			return err
		}
		utils.Info("facet schema loaded", "facets", schema.Len())
	}

	// 4. Discovery: сначала значения существующих фасетов, потом новые фасеты.
	// Каждая фаза даёт журнал дельт, схема-вход не мутируется.
	session := discover.NewSession(deps.Classifier, deps.Prompter, deps.Extractor, deps.Announce)

	if opts.SuggestVals != discover.PolicyNo {
		deps.say("Suggesting new facet values...")
		deltas, err := session.SuggestFacetValues(ctx, products, schema, opts.SuggestVals)
		if err != nil {
			return err
		}
		schema = discover.ApplyDeltas(schema, deltas)
	}

	if opts.SuggestNew != discover.PolicyNo {
		deps.say("Suggesting new facets...")
		deltas, err := session.SuggestNewFacets(ctx, products, schema, opts.SuggestNew)
		if err != nil {
			return err
		}
		schema = discover.ApplyDeltas(schema, deltas)
	}

	// 5. Обновлённая схема пишется безусловно, даже без discovery —
	// тогда она семантически равна входной.
	if err := writeSchema(opts.SchemaOut, schema); err != nil {
		return err
	}
	deps.say(fmt.Sprintf("Facets saved to %s", opts.SchemaOut))

	// 6. Применение фасетов
	deps.say("Applying facets to products...")
	engine := apply.NewEngine(deps.Classifier, deps.Extractor, deps.Workers)
	labeled, err := engine.Apply(ctx, products, schema)
	if err != nil {
		return err
	}

	// 7. Результат
	if err := writeLabeled(opts.OutputFile, labeled); err != nil {
		return err
	}
	deps.say(fmt.Sprintf("Labeled products saved to %s", opts.OutputFile))

	// 8. Опциональная выгрузка артефактов
	if deps.Uploader != nil {
		if err := uploadArtifacts(ctx, opts, deps.Uploader); err != nil {
			// Выгрузка — последний шаг: локальные артефакты уже на диске,
			// сбой выгрузки не отменяет прогон
			utils.Error("artifact upload failed", "error", err)
			deps.say(fmt.Sprintf("Warning: artifact upload failed: %v", err))
		}
	}

	return nil
}

// loadProducts выбирает источник каталога и нормализует товары.
func loadProducts(ctx context.Context, opts Options, deps Deps) ([]catalog.Product, error) {
	if opts.ProductFile != "" {
		products, err := catalog.LoadFile(opts.ProductFile)
		if err != nil {
			return nil, err
		}
		utils.Info("products loaded from file", "path", opts.ProductFile, "count", len(products))
		return products, nil
	}

	raw, err := deps.Fetcher.FetchAllProducts(ctx, opts.StoreURL)
	if err != nil {
		// Сбой транспорта фатален: частичный каталог не обрабатывается
		return nil, fmt.Errorf("fetching products from store: %w", err)
	}
	products, err := catalog.NormalizeAll(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid product data from store: %w", err)
	}
	utils.Info("products fetched from store", "store", opts.StoreURL, "count", len(products))
	return products, nil
}

func writeSchema(path string, schema *facet.Schema) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return facet.SaveSchema(path, schema)
}

func writeLabeled(path string, labeled []apply.LabeledProduct) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(labeled, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal labeled products: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing labeled products: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// uploadArtifacts выгружает оба выходных файла в объектное хранилище.
func uploadArtifacts(ctx context.Context, opts Options, uploader s3storage.Uploader) error {
	labeled, err := os.ReadFile(opts.OutputFile)
	if err != nil {
		return err
	}
	if _, err := uploader.UploadArtifact(ctx, filepath.Base(opts.OutputFile), labeled, "application/json"); err != nil {
		return err
	}

	schema, err := os.ReadFile(opts.SchemaOut)
	if err != nil {
		return err
	}
	if _, err := uploader.UploadArtifact(ctx, filepath.Base(opts.SchemaOut), schema, "application/yaml"); err != nil {
		return err
	}

	return nil
}
