package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models  ModelsConfig  `yaml:"models"`
	Shopify ShopifyConfig `yaml:"shopify"`
	S3      S3Config      `yaml:"s3"`
	App     AppSpecific   `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели по умолчанию (например, "gpt-4")
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai", "deepseek" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`  // Go умеет парсить строки вида "60s", "1m"
	BaseURL     string        `yaml:"base_url"` // Для non-OpenAI провайдеров
}

// ShopifyConfig — настройки клиента витрины магазина.
type ShopifyConfig struct {
	PerPage       int    `yaml:"per_page"`       // Товаров на страницу (макс. 250)
	RateLimit     int    `yaml:"rate_limit"`     // Запросов в минуту
	BurstLimit    int    `yaml:"burst_limit"`    // Burst для rate limiter
	RetryAttempts int    `yaml:"retry_attempts"` // Количество retry попыток
	Timeout       string `yaml:"timeout"`        // Timeout для HTTP запросов (например, "30s")
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *ShopifyConfig) GetDefaults() ShopifyConfig {
	result := *c // Копируем текущие значения

	if result.PerPage == 0 {
		result.PerPage = 250 // максимум Shopify
	}
	if result.RateLimit == 0 {
		result.RateLimit = 120 // запросов в минуту
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 4
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}

	return result
}

// S3Config — настройки объектного хранилища для выгрузки артефактов прогона.
type S3Config struct {
	Enabled   bool   `yaml:"enabled"` // Если false — выгрузка пропускается
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"` // Префикс ключей в бакете (например, "facet-runs")
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug     bool   `yaml:"debug"`
	InputDir  string `yaml:"input_dir"`  // Каталог входных файлов (по умолчанию "input")
	OutputDir string `yaml:"output_dir"` // Каталог выходных файлов (по умолчанию "output")
	Workers   int    `yaml:"workers"`    // Количество воркеров классификации (по умолчанию 4)
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required when s3.enabled")
		}
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required when s3.enabled")
		}
	}
	return nil
}

// Helper методы для удобства доступа (Syntactic sugar)

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// WorkersOrDefault возвращает количество воркеров классификации.
func (c *AppConfig) WorkersOrDefault() int {
	if c.App.Workers > 0 {
		return c.App.Workers
	}
	return 4
}

// OutputDirOrDefault возвращает каталог для выходных файлов.
func (c *AppConfig) OutputDirOrDefault() string {
	if c.App.OutputDir != "" {
		return c.App.OutputDir
	}
	return "output"
}

// InputDirOrDefault возвращает каталог для входных файлов.
func (c *AppConfig) InputDirOrDefault() string {
	if c.App.InputDir != "" {
		return c.App.InputDir
	}
	return "input"
}
