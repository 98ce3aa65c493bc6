package discover

import (
	"github.com/ilkoid/facet-ai/pkg/facet"
)

// DeltaKind — тип принятого изменения схемы.
type DeltaKind int

const (
	// ValueAdded — к существующему фасету добавлено значение.
	ValueAdded DeltaKind = iota
	// FacetAdded — добавлен новый фасет целиком.
	FacetAdded
)

// Delta — одно принятое изменение схемы.
//
// Сессия не мутирует входную схему: она возвращает упорядоченный журнал
// принятых изменений. Журнал реплеится через ApplyDeltas — это делает
// сессию воспроизводимой и тестируемой без живого терминала.
type Delta struct {
	Kind       DeltaKind
	Facet      string
	Value      string           // для ValueAdded
	Definition facet.Definition // для FacetAdded
}

// ApplyDeltas применяет журнал к копии базовой схемы.
//
// База не модифицируется. Повторное применение того же журнала к той же
// базе даёт семантически идентичный результат.
func ApplyDeltas(base *facet.Schema, deltas []Delta) *facet.Schema {
	out := base.Clone()

	for _, d := range deltas {
		switch d.Kind {
		case ValueAdded:
			// Ошибка возможна только для несуществующего фасета;
			// журнал сессии таких не порождает
			_ = out.AppendValue(d.Facet, d.Value)
		case FacetAdded:
			out.Set(d.Facet, d.Definition)
		}
	}

	return out
}
