package explorer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"modelexplorer/types"
)

// SortField 可排序的列
type SortField string

const (
	SortProvider      SortField = "provider"
	SortName          SortField = "name"
	SortModality      SortField = "modality"
	SortPricing       SortField = "pricing"
	SortContextLength SortField = "contextLength"
)

// Direction 排序方向
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState 当前排序
type SortState struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort 按名称升序
var DefaultSort = SortState{Field: SortName, Direction: Asc}

// ParseSortField 按列定义校验字段名（不区分大小写）
func ParseSortField(s string) (SortField, error) {
	for _, col := range types.Columns {
		if strings.EqualFold(col.ID, s) {
			return SortField(col.ID), nil
		}
	}
	return "", fmt.Errorf("unknown sort field: %q", s)
}

// ParseDirection 空字符串视为升序
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction: %q", s)
}

// Toggle 同一字段翻转方向，新字段从升序开始
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		if s.Direction == Asc {
			return SortState{Field: field, Direction: Desc}
		}
		return SortState{Field: field, Direction: Asc}
	}
	return SortState{Field: field, Direction: Asc}
}

// SortModels 原地稳定排序
func SortModels(models []types.ModelRecord, s SortState) {
	compare := comparator(s.Field)
	if s.Direction == Desc {
		slices.SortStableFunc(models, func(a, b types.ModelRecord) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(models, compare)
}

func comparator(field SortField) func(a, b types.ModelRecord) int {
	switch field {
	case SortProvider:
		return byString(func(m types.ModelRecord) string { return m.Provider })
	case SortModality:
		return byString(func(m types.ModelRecord) string { return m.Modality })
	case SortPricing:
		return func(a, b types.ModelRecord) int { return cmp.Compare(PriceKey(a), PriceKey(b)) }
	case SortContextLength:
		return func(a, b types.ModelRecord) int { return cmp.Compare(a.ContextLength, b.ContextLength) }
	default:
		return byString(func(m types.ModelRecord) string { return m.Name })
	}
}

func byString(key func(types.ModelRecord) string) func(a, b types.ModelRecord) int {
	return func(a, b types.ModelRecord) int {
		return cmp.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}
