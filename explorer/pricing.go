package explorer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"modelexplorer/types"
)

// IsFree 名称含free，或所有价格都是"0"/"free"
func IsFree(m types.ModelRecord) bool {
	if strings.Contains(strings.ToLower(m.Name), "free") {
		return true
	}
	for _, v := range m.Pricing.Values() {
		if v != "0" && v != "free" {
			return false
		}
	}
	return true
}

// PriceKey 排序用的价格键：免费为0，其余为各项价格之和，无法解析的项按0计
func PriceKey(m types.ModelRecord) float64 {
	if IsFree(m) {
		return 0
	}
	sum := 0.0
	for _, v := range m.Pricing.Values() {
		if n, ok := parsePrice(v); ok {
			sum += n
		}
	}
	return sum
}

// FormatPricing 展示用价格：token按每百万，image按每千
func FormatPricing(m types.ModelRecord) string {
	if IsFree(m) {
		return "Free"
	}

	var parts []string
	for i, v := range m.Pricing.Values() {
		if v == "0" || v == "free" {
			continue
		}
		n, ok := parsePrice(v)
		if !ok {
			continue
		}

		key := types.PricingKeys[i]
		if key == "image" {
			parts = append(parts, fmt.Sprintf("%s $%.2f/K", key, n*1000))
		} else {
			parts = append(parts, fmt.Sprintf("%s $%.2f/M", key, n*1_000_000))
		}
	}

	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

func parsePrice(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
