// Package facet определяет схему фасетов и её YAML персистентность.
//
// Схема сохраняет порядок фасетов из документа: порядок важен для
// итерации движка применения и для контекста discovery-промптов.
package facet

import (
	"fmt"
	"strings"
)

// Definition — определение одного фасета.
type Definition struct {
	AllowedValues []string // непустой список, порядок сохраняется для отображения
	MultiValued   bool     // может ли товар нести больше одного значения
	Required      bool     // обязан ли каждый товар получить значение
	DefaultValue  *string  // осмыслен только при Required
}

// RequiredResponse сообщает нужен ли классификатору режим "must answer":
// фасет обязательный и дефолта нет — ответ "None" недопустим.
func (d Definition) RequiredResponse() bool {
	return d.Required && d.DefaultValue == nil
}

// HasValue проверяет членство в allowed_values (точное совпадение строки).
func (d Definition) HasValue(value string) bool {
	for _, v := range d.AllowedValues {
		if v == value {
			return true
		}
	}
	return false
}

// Schema — упорядоченное отображение имя фасета → Definition.
type Schema struct {
	names []string
	defs  map[string]Definition
}

// NewSchema создает пустую схему.
func NewSchema() *Schema {
	return &Schema{defs: make(map[string]Definition)}
}

// Len возвращает количество фасетов.
func (s *Schema) Len() int {
	return len(s.names)
}

// Names возвращает имена фасетов в порядке документа/добавления.
// Возвращается копия: срез можно спокойно модифицировать.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get возвращает определение фасета по имени.
func (s *Schema) Get(name string) (Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Has проверяет наличие фасета.
func (s *Schema) Has(name string) bool {
	_, ok := s.defs[name]
	return ok
}

// Set добавляет фасет или заменяет существующий.
// Новые имена встают в конец порядка итерации.
func (s *Schema) Set(name string, def Definition) {
	if _, exists := s.defs[name]; !exists {
		s.names = append(s.names, name)
	}
	s.defs[name] = def
}

// AppendValue добавляет значение в allowed_values фасета.
// Дубликаты (точное совпадение) молча игнорируются.
func (s *Schema) AppendValue(name, value string) error {
	def, ok := s.defs[name]
	if !ok {
		return fmt.Errorf("facet %q is not defined", name)
	}
	if def.HasValue(value) {
		return nil
	}
	def.AllowedValues = append(append([]string{}, def.AllowedValues...), value)
	s.defs[name] = def
	return nil
}

// Clone возвращает глубокую копию схемы.
//
// Discovery-сессия работает с копией: входная схема никогда не мутируется.
func (s *Schema) Clone() *Schema {
	out := NewSchema()
	for _, name := range s.names {
		def := s.defs[name]
		def.AllowedValues = append([]string{}, def.AllowedValues...)
		if def.DefaultValue != nil {
			v := *def.DefaultValue
			def.DefaultValue = &v
		}
		out.Set(name, def)
	}
	return out
}

// ValuesByName возвращает отображение имя → allowed_values для
// контекста discovery-промптов. Порядок берётся из Names().
func (s *Schema) ValuesByName() map[string][]string {
	out := make(map[string][]string, len(s.names))
	for _, name := range s.names {
		out[name] = append([]string{}, s.defs[name].AllowedValues...)
	}
	return out
}

// String возвращает компактное описание схемы для логов.
func (s *Schema) String() string {
	var b strings.Builder
	for i, name := range s.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s(%d)", name, len(s.defs[name].AllowedValues))
	}
	return b.String()
}
