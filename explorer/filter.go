package explorer

import (
	"fmt"
	"slices"
	"strings"

	"modelexplorer/types"
)

// 价格分类
const (
	PricingFree = "free"
	PricingPaid = "paid"
)

// FilterState 当前过滤条件，零值表示不过滤
type FilterState struct {
	Search     string   `json:"search"`
	Providers  []string `json:"providers"`
	Modalities []string `json:"modalities"`
	Pricing    []string `json:"pricing"`
	MinContext int      `json:"minContextLength"`
}

// FilterPatch 局部更新，nil字段保持不变
type FilterPatch struct {
	Search     *string   `json:"search,omitempty"`
	Providers  *[]string `json:"providers,omitempty"`
	Modalities *[]string `json:"modalities,omitempty"`
	Pricing    *[]string `json:"pricing,omitempty"`
	MinContext *int      `json:"minContextLength,omitempty"`
}

// Validate 检查价格分类和最小上下文
func (p FilterPatch) Validate() error {
	if p.Pricing != nil {
		for _, class := range *p.Pricing {
			if err := validatePricingClass(class); err != nil {
				return err
			}
		}
	}
	if p.MinContext != nil && *p.MinContext < 0 {
		return fmt.Errorf("minContextLength must be >= 0, got %d", *p.MinContext)
	}
	return nil
}

func validatePricingClass(class string) error {
	switch strings.ToLower(class) {
	case PricingFree, PricingPaid:
		return nil
	}
	return fmt.Errorf("unknown pricing class: %q", class)
}

// Merge 只覆盖patch中出现的字段
func (f FilterState) Merge(p FilterPatch) FilterState {
	out := f.Clone()
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Providers != nil {
		out.Providers = slices.Clone(*p.Providers)
	}
	if p.Modalities != nil {
		out.Modalities = slices.Clone(*p.Modalities)
	}
	if p.Pricing != nil {
		out.Pricing = slices.Clone(*p.Pricing)
	}
	if p.MinContext != nil {
		out.MinContext = *p.MinContext
	}
	return out
}

// Clone 深拷贝，避免调用方修改共享切片
func (f FilterState) Clone() FilterState {
	f.Providers = slices.Clone(f.Providers)
	f.Modalities = slices.Clone(f.Modalities)
	f.Pricing = slices.Clone(f.Pricing)
	return f
}

// IsEmpty 是否没有任何过滤条件
func (f FilterState) IsEmpty() bool {
	return f.Search == "" && len(f.Providers) == 0 && len(f.Modalities) == 0 &&
		len(f.Pricing) == 0 && f.MinContext <= 0
}

// Matches 所有条件同时满足
func (f FilterState) Matches(m types.ModelRecord) bool {
	return f.matchesSearch(m) &&
		f.matchesProviders(m) &&
		f.matchesModalities(m) &&
		f.matchesPricing(m) &&
		f.matchesContext(m)
}

func (f FilterState) matchesSearch(m types.ModelRecord) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Provider), q)
}

// matchesProviders 提供商名包含任一选中值即可
func (f FilterState) matchesProviders(m types.ModelRecord) bool {
	if len(f.Providers) == 0 {
		return true
	}
	provider := strings.ToLower(m.Provider)
	return slices.ContainsFunc(f.Providers, func(p string) bool {
		return strings.Contains(provider, strings.ToLower(p))
	})
}

// matchesModalities 针对原始modality字符串做子串匹配
func (f FilterState) matchesModalities(m types.ModelRecord) bool {
	if len(f.Modalities) == 0 {
		return true
	}
	modality := strings.ToLower(m.Modality)
	return slices.ContainsFunc(f.Modalities, func(s string) bool {
		return strings.Contains(modality, strings.ToLower(s))
	})
}

func (f FilterState) matchesPricing(m types.ModelRecord) bool {
	if len(f.Pricing) == 0 {
		return true
	}
	class := PricingPaid
	if IsFree(m) {
		class = PricingFree
	}
	return slices.ContainsFunc(f.Pricing, func(s string) bool {
		return strings.EqualFold(s, class)
	})
}

func (f FilterState) matchesContext(m types.ModelRecord) bool {
	return f.MinContext <= 0 || m.ContextLength >= f.MinContext
}
