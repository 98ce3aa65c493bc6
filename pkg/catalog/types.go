// Package catalog определяет модель товара и загрузку каталога.
//
// Товары загружаются один раз за прогон (из файла или с витрины магазина),
// нормализуются и дальше не мутируются: движок фасетирования порождает
// новые LabeledProduct записи, а не меняет вход.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Option — опция товара (например, "Size: S, M, L").
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// PriceRange — диапазон цен, выведенный из цен вариантов товара.
type PriceRange struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// Product — нормализованный товар. Иммутабелен после нормализации.
//
// Отсутствующие опциональные поля — нулевые значения, без placeholder-ов.
type Product struct {
	ID          string
	Title       string
	BodyHTML    string
	Vendor      string
	Handle      string
	ProductType string
	Tags        []string
	Options     []Option
	PriceRange  *PriceRange
	Images      []string
}

// RawProduct — сырой товар из products.json витрины или из локального файла.
//
// Сырой формат не под нашим контролем, поэтому нестрогие поля (id может быть
// числом или строкой, tags — массивом или строкой с запятыми) разбираются
// кастомными декодерами.
type RawProduct struct {
	ID          flexID       `json:"id"`
	Title       string       `json:"title"`
	BodyHTML    string       `json:"body_html"`
	Vendor      string       `json:"vendor"`
	Handle      string       `json:"handle"`
	ProductType string       `json:"product_type"`
	Tags        tagList      `json:"tags"`
	Options     []Option     `json:"options"`
	Variants    []rawVariant `json:"variants"`
	Images      []rawImage   `json:"images"`
}

type rawVariant struct {
	Price flexPrice `json:"price"`
}

type rawImage struct {
	Src string `json:"src"`
}

// flexID принимает числовой или строковый идентификатор.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexID(str)
		return nil
	}
	// Число: сохраняем десятичную запись как есть
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("id must be a string or number: %s", s)
	}
	*f = flexID(num.String())
	return nil
}

// tagList принимает массив строк или одну строку с запятыми
// (Shopify отдаёт tags вторым вариантом).
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*t = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*t = arr
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be a list or a string: %s", s)
	}
	var tags []string
	for _, part := range strings.Split(joined, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	*t = tags
	return nil
}

// flexPrice принимает цену строкой ("49.90") или числом.
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Невалидная цена пропускается при нормализации, не роняет загрузку
		*p = 0
		return nil
	}
	*p = flexPrice(v)
	return nil
}
