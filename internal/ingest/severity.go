// Package ingest превращает внешние данные (CSV, документы старых схем, живые отчеты)
// в канонические инциденты и доставляет их в хранилище.
package ingest

import (
	"fmt"
	"math"
	"sort"
)

// Канонические категории преступлений
const (
	CategoryMurder           = "murder"
	CategoryRape             = "rape"
	CategoryGangrape         = "gangrape"
	CategoryRobbery          = "robbery"
	CategoryTheft            = "theft"
	CategoryAssaultMurders   = "assault_murders"
	CategorySexualHarassment = "sexual_harassment"
)

// CategoryWeights - фиксированная таблица весов категорий для расчета severity.
// assault_murders сохраняется в данных, но в severity не участвует.
var CategoryWeights = map[string]float64{
	CategoryMurder:           5,
	CategoryRape:             4,
	CategoryGangrape:         4,
	CategoryRobbery:          3,
	CategoryTheft:            1,
	CategoryAssaultMurders:   0,
	CategorySexualHarassment: 2,
}

// KnownCategory сообщает, есть ли категория в таблице весов
func KnownCategory(name string) bool {
	_, ok := CategoryWeights[name]
	return ok
}

// Severity считает взвешенную сумму по количеству инцидентов каждой категории
func Severity(counts map[string]float64) float64 {
	var severity float64
	for category, count := range counts {
		if count <= 0 || math.IsNaN(count) || math.IsInf(count, 0) {
			continue
		}
		severity += CategoryWeights[category] * count
	}
	return severity
}

// ValidateCounts проверяет, что все категории известны, а количества неотрицательны
func ValidateCounts(counts map[string]float64) error {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !KnownCategory(name) {
			return fmt.Errorf("unknown category %q", name)
		}
		count := counts[name]
		if count < 0 || math.IsNaN(count) || math.IsInf(count, 0) {
			return fmt.Errorf("invalid count %v for category %q", count, name)
		}
	}
	return nil
}
