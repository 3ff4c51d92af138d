package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CatalogueResponse 上游 /api/v1/models 的顶层结构
// Data 保留原始元素，逐条解码以便单条坏数据只丢弃自身
type CatalogueResponse struct {
	Data *[]json.RawMessage `json:"data"`
}

// CatalogueModel 上游单个模型
type CatalogueModel struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	Created       LooseNumber            `json:"created,omitempty"`
	ContextLength LooseNumber            `json:"context_length"`
	Architecture  *CatalogueArchitecture `json:"architecture,omitempty"`
	Pricing       *CataloguePricing      `json:"pricing,omitempty"`
}

// CatalogueArchitecture 模型架构信息
type CatalogueArchitecture struct {
	Modality  string `json:"modality"`
	Tokenizer string `json:"tokenizer"`
}

// CataloguePricing 上游价格，单位为美元/token（image为美元/张，request为美元/次）
type CataloguePricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
	Image      string `json:"image"`
	Request    string `json:"request"`
}

// LooseNumber 宽松数值：接受数字或数字字符串，其余类型按缺失处理而不报错
type LooseNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON 实现json.Unmarshaler
func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	*n = LooseNumber{}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// Int64 截断为整数，无效时返回0
func (n LooseNumber) Int64() int64 {
	if !n.Valid {
		return 0
	}
	return int64(n.Value)
}
