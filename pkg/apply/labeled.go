package apply

import (
	"bytes"
	"encoding/json"
)

// FacetAssignments — упорядоченное отображение фасет → присвоенные значения.
//
// Порядок ключей в выходном JSON повторяет порядок итерации схемы,
// поэтому обычный map не годится (encoding/json сортирует ключи).
type FacetAssignments struct {
	order  []string
	values map[string][]string
}

// NewFacetAssignments создает пустой набор присвоений.
func NewFacetAssignments() *FacetAssignments {
	return &FacetAssignments{values: make(map[string][]string)}
}

// Add записывает значения фасета. Пустые присвоения игнорируются:
// отсутствие ключа в выходе и означает "значение не присвоено".
func (a *FacetAssignments) Add(facetName string, vals []string) {
	if len(vals) == 0 {
		return
	}
	if _, exists := a.values[facetName]; !exists {
		a.order = append(a.order, facetName)
	}
	a.values[facetName] = vals
}

// Get возвращает значения фасета (nil если не присвоен).
func (a *FacetAssignments) Get(facetName string) []string {
	return a.values[facetName]
}

// Has проверяет присвоен ли фасет.
func (a *FacetAssignments) Has(facetName string) bool {
	_, ok := a.values[facetName]
	return ok
}

// Names возвращает имена присвоенных фасетов в порядке записи.
func (a *FacetAssignments) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len возвращает количество присвоенных фасетов.
func (a *FacetAssignments) Len() int {
	return len(a.order)
}

// MarshalJSON сериализует присвоения JSON-объектом с сохранением порядка.
func (a *FacetAssignments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		vals, err := json.Marshal(a.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает присвоения обратно (порядок ключей JSON сохраняется).
func (a *FacetAssignments) UnmarshalJSON(data []byte) error {
	a.order = nil
	a.values = make(map[string][]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	// Открывающая скобка
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var vals []string
		if err := dec.Decode(&vals); err != nil {
			return err
		}
		a.Add(key, vals)
	}
	return nil
}

// LabeledProduct — результат фасетирования одного товара.
//
// Фасет, отсутствующий в Facets, означает "значение не присвоено".
type LabeledProduct struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Facets *FacetAssignments `json:"facets"`
}
