// Утилита facet-ai: полный прогон фасетирования каталога товаров.
//
// Примеры:
//
//	facet-ai -store-url libertyskis.com -facets facets.yaml
//	facet-ai -product-file products.json -facets facets.yaml -suggest-facet-values ask
//	facet-ai -product-file products.json -suggest-new-facets yes
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ilkoid/facet-ai/pkg/classify"
	"github.com/ilkoid/facet-ai/pkg/config"
	"github.com/ilkoid/facet-ai/pkg/discover"
	"github.com/ilkoid/facet-ai/pkg/factory"
	"github.com/ilkoid/facet-ai/pkg/keywords"
	"github.com/ilkoid/facet-ai/pkg/pipeline"
	"github.com/ilkoid/facet-ai/pkg/s3storage"
	"github.com/ilkoid/facet-ai/pkg/shopify"
	"github.com/ilkoid/facet-ai/pkg/utils"
)

const defaultOutputFile = "labeled_products.json"
const updatedSchemaFile = "updated_facets_config.yaml"

func main() {
	var (
		configPath    = flag.String("config", "config.yaml", "Path to config.yaml")
		storeURL      = flag.String("store-url", "", "URL of the Shopify store (e.g. libertyskis.com)")
		productFile   = flag.String("product-file", "", "Path to a local JSON file of products")
		outputFile    = flag.String("output-file", "", "Where to save the final labeled output")
		facetsFile    = flag.String("facets", "", "Path to YAML file of user-defined facets")
		suggestValues = flag.String("suggest-facet-values", "no", "Suggest new facet values: 'no', 'yes', or 'ask'")
		suggestFacets = flag.String("suggest-new-facets", "no", "Suggest entirely new facets: 'no', 'yes', or 'ask'")
		limit         = flag.Int("limit", 0, "Limit the number of products to be faceted (0 = all)")
		modelName     = flag.String("model", "", "Model alias from config (default: models.default_chat)")
	)
	flag.Parse()

	// 1. Политики подтверждения
	valuesPolicy, err := discover.ParsePolicy(*suggestValues)
	if err != nil {
		fatal(err)
	}
	newFacetsPolicy, err := discover.ParsePolicy(*suggestFacets)
	if err != nil {
		fatal(err)
	}

	// 2. Конфиг и логгер
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(fmt.Errorf("config load error: %w", err))
	}

	if err := utils.InitLogger(); err != nil {
		fatal(err)
	}
	defer utils.Close()

	// 3. Разрешение путей: входные файлы относительно input_dir,
	// выходные — относительно output_dir
	inputDir := cfg.InputDirOrDefault()
	outputDir := cfg.OutputDirOrDefault()

	opts := pipeline.Options{
		StoreURL:    *storeURL,
		ProductFile: resolvePath(inputDir, *productFile),
		FacetsFile:  resolvePath(inputDir, *facetsFile),
		OutputFile:  resolveOutput(outputDir, *outputFile),
		SchemaOut:   filepath.Join(outputDir, updatedSchemaFile),
		SuggestVals: valuesPolicy,
		SuggestNew:  newFacetsPolicy,
		Limit:       *limit,
	}

	// Fail fast до любой работы: неверная комбинация аргументов
	if err := opts.Validate(); err != nil {
		fatal(err)
	}

	// 4. Классификатор
	modelDef, ok := cfg.GetChatModel(*modelName)
	if !ok {
		fatal(fmt.Errorf("model %q not found in config definitions", *modelName))
	}
	provider, err := factory.NewLLMProvider(modelDef)
	if err != nil {
		fatal(fmt.Errorf("provider init error: %w", err))
	}

	deps := pipeline.Deps{
		Classifier: classify.New(provider, modelDef),
		Extractor:  keywords.NewHeuristic(),
		Prompter:   discover.NewConsolePrompter(),
		Workers:    cfg.WorkersOrDefault(),
		Announce: func(msg string) {
			fmt.Println(msg)
		},
	}

	// 5. Источник каталога
	if *storeURL != "" {
		fetcher, err := shopify.NewFromConfig(cfg.Shopify)
		if err != nil {
			fatal(err)
		}
		deps.Fetcher = fetcher
	}

	// 6. Опциональная выгрузка артефактов в S3
	if cfg.S3.Enabled {
		uploader, err := s3storage.New(cfg.S3)
		if err != nil {
			fatal(fmt.Errorf("s3 init error: %w", err))
		}
		deps.Uploader = uploader
	}

	// 7. Прогон с отменой по Ctrl+C
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := pipeline.Run(ctx, opts, deps); err != nil {
		utils.Error("run failed", "error", err)
		fatal(err)
	}
}

// resolvePath дополняет относительный путь каталогом входных файлов.
// Пустой путь остаётся пустым.
func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// resolveOutput строит путь выходного файла (с дефолтным именем).
func resolveOutput(dir, path string) string {
	if path == "" {
		path = defaultOutputFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func fatal(err error) {
	log.SetFlags(0)
	log.Fatalf("Error: %v", err)
}
