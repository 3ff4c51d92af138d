package explorer

import (
	"slices"
	"sort"
	"strings"

	"modelexplorer/types"
)

// Visible 过滤后排序，不修改输入
func Visible(models []types.ModelRecord, filter FilterState, s SortState) []types.ModelRecord {
	out := make([]types.ModelRecord, 0, len(models))
	for _, m := range models {
		if filter.Matches(m) {
			out = append(out, m)
		}
	}
	SortModels(out, s)
	return out
}

// AvailableProviders 去重排序后的提供商列表，query非空时只保留包含query的项
func AvailableProviders(models []types.ModelRecord, query string) []string {
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		seen[m.Provider] = struct{}{}
	}
	return facet(seen, query)
}

// AvailableModalities 按'+'拆分modality，取'->'之前的部分
func AvailableModalities(models []types.ModelRecord, query string) []string {
	seen := make(map[string]struct{})
	for _, m := range models {
		for _, part := range strings.Split(m.Modality, "+") {
			input, _, _ := strings.Cut(part, "->")
			if input = strings.TrimSpace(input); input != "" {
				seen[input] = struct{}{}
			}
		}
	}
	return facet(seen, query)
}

func facet(seen map[string]struct{}, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(seen))
	for v := range seen {
		if q == "" || strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// excludeProviders 按提供商名（不区分大小写）剔除
func excludeProviders(models []types.ModelRecord, excluded []string) []types.ModelRecord {
	if len(excluded) == 0 {
		return slices.Clone(models)
	}
	out := make([]types.ModelRecord, 0, len(models))
	for _, m := range models {
		if !slices.ContainsFunc(excluded, func(p string) bool { return strings.EqualFold(p, m.Provider) }) {
			out = append(out, m)
		}
	}
	return out
}
