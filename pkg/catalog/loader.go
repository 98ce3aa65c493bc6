package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrProductData — маркер ошибок валидации сырых данных каталога.
// Такие ошибки фатальны: прогон прерывается до любой классификации.
var ErrProductData = errors.New("invalid product data")

// CheckRaw валидирует структуру сырых данных.
//
// Каждый товар обязан иметь непустые id и title — без них результат
// фасетирования невозможно привязать к товару.
func CheckRaw(raw []RawProduct) error {
	for i, p := range raw {
		if p.ID == "" {
			return fmt.Errorf("%w: product at index %d has no 'id'", ErrProductData, i)
		}
		if p.Title == "" {
			return fmt.Errorf("%w: product at index %d has no 'title'", ErrProductData, i)
		}
	}
	return nil
}

// Normalize извлекает нужные поля из сырого товара.
//
// Диапазон цен выводится из цен вариантов (min/max по валидным ценам),
// из картинок остаются только src. Отсутствующие поля остаются нулевыми.
func Normalize(raw RawProduct) Product {
	p := Product{
		ID:          string(raw.ID),
		Title:       raw.Title,
		BodyHTML:    raw.BodyHTML,
		Vendor:      raw.Vendor,
		Handle:      raw.Handle,
		ProductType: raw.ProductType,
		Tags:        []string(raw.Tags),
		Options:     raw.Options,
	}

	var prices []float64
	for _, v := range raw.Variants {
		if v.Price > 0 {
			prices = append(prices, float64(v.Price))
		}
	}
	if len(prices) > 0 {
		pr := &PriceRange{MinPrice: prices[0], MaxPrice: prices[0]}
		for _, price := range prices[1:] {
			if price < pr.MinPrice {
				pr.MinPrice = price
			}
			if price > pr.MaxPrice {
				pr.MaxPrice = price
			}
		}
		p.PriceRange = pr
	}

	for _, img := range raw.Images {
		if img.Src != "" {
			p.Images = append(p.Images, img.Src)
		}
	}

	return p
}

// NormalizeAll валидирует и нормализует список сырых товаров.
func NormalizeAll(raw []RawProduct) ([]Product, error) {
	if err := CheckRaw(raw); err != nil {
		return nil, err
	}
	products := make([]Product, len(raw))
	for i, r := range raw {
		products[i] = Normalize(r)
	}
	return products, nil
}

// LoadFile загружает и нормализует товары из локального JSON файла.
//
// Файл должен содержать JSON массив объектов товаров.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading product file: %v", ErrProductData, err)
	}

	var raw []RawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: product file must be a JSON array: %v", ErrProductData, err)
	}

	return NormalizeAll(raw)
}
