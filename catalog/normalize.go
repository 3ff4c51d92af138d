package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"modelexplorer/config"
	"modelexplorer/logger"
	"modelexplorer/types"
	"modelexplorer/utils"
)

// ParsePayload 解析上游响应体并归一化为模型记录
// 顶层不是 {data: [...]} 时返回 InvalidShape，全部元素无效时返回 EmptyResult
func ParsePayload(body []byte) ([]types.ModelRecord, error) {
	var resp types.CatalogueResponse
	if err := utils.SafeUnmarshal(body, &resp); err != nil {
		return nil, &FetchError{Kind: KindInvalidShape, Err: fmt.Errorf("Invalid data structure from API: %w", err)}
	}
	if resp.Data == nil {
		return nil, &FetchError{Kind: KindInvalidShape, Err: errors.New("Invalid data structure from API: missing data array")}
	}

	models, dropped := Normalize(*resp.Data)
	if dropped > 0 {
		logger.Warn("丢弃无效模型记录",
			logger.Int("dropped", dropped),
			logger.Int("kept", len(models)))
	}
	if len(models) == 0 {
		return nil, &FetchError{Kind: KindEmptyResult, Err: fmt.Errorf("No valid models found (%d raw)", len(*resp.Data))}
	}
	return models, nil
}

// Normalize 逐条解码，单条解码失败或缺少id/name时丢弃该条
func Normalize(raw []json.RawMessage) ([]types.ModelRecord, int) {
	models := make([]types.ModelRecord, 0, len(raw))
	dropped := 0

	for i, item := range raw {
		var m types.CatalogueModel
		if err := utils.SafeUnmarshal(item, &m); err != nil {
			logger.Debug("模型记录解码失败", logger.Int("index", i), logger.Err(err))
			dropped++
			continue
		}

		record, ok := NormalizeModel(m)
		if !ok {
			logger.Debug("模型记录缺少id或name",
				logger.Int("index", i),
				logger.String("id", m.ID))
			dropped++
			continue
		}
		models = append(models, record)
	}
	return models, dropped
}

// NormalizeModel 按默认值规则转换单个上游模型
func NormalizeModel(m types.CatalogueModel) (types.ModelRecord, bool) {
	id := strings.TrimSpace(m.ID)
	name := strings.TrimSpace(m.Name)
	if id == "" || name == "" {
		return types.ModelRecord{}, false
	}

	record := types.ModelRecord{
		ID:            id,
		Provider:      ProviderOf(id),
		Name:          name,
		Modality:      config.UnknownValue,
		Tokenizer:     config.UnknownValue,
		Description:   config.DefaultDescription,
		Created:       m.Created.Int64(),
		ContextLength: contextLengthK(m.ContextLength),
		Pricing: types.Pricing{
			Prompt:     config.DefaultPrice,
			Completion: config.DefaultPrice,
			Image:      config.DefaultPrice,
			Request:    config.DefaultPrice,
		},
	}

	if m.Architecture != nil {
		record.Modality = orDefault(m.Architecture.Modality, config.UnknownValue)
		record.Tokenizer = orDefault(m.Architecture.Tokenizer, config.UnknownValue)
	}
	if m.Description != "" {
		record.Description = m.Description
	}
	if p := m.Pricing; p != nil {
		record.Pricing = types.Pricing{
			Prompt:     orDefault(p.Prompt, config.DefaultPrice),
			Completion: orDefault(p.Completion, config.DefaultPrice),
			Image:      orDefault(p.Image, config.DefaultPrice),
			Request:    orDefault(p.Request, config.DefaultPrice),
		}
	}
	return record, true
}

// ProviderOf 取id中第一个'/'之前的部分，没有'/'或前缀为空时返回Unknown
func ProviderOf(id string) string {
	provider, _, found := strings.Cut(id, "/")
	if !found || provider == "" {
		return config.UnknownValue
	}
	return provider
}

// contextLengthK token上限换算为千，四舍五入，缺失或负数按0处理
func contextLengthK(v types.LooseNumber) int {
	if !v.Valid || v.Value <= 0 {
		return 0
	}
	return int(math.Round(v.Value / 1000))
}

// RestoreRecord 快照中的记录重新套用归一化规则：
// 缺少id/name时丢弃，provider按id重新计算，空价格和modality补默认值
func RestoreRecord(r types.ModelRecord) (types.ModelRecord, bool) {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	if r.ID == "" || r.Name == "" {
		return types.ModelRecord{}, false
	}

	r.Provider = ProviderOf(r.ID)
	r.Modality = orDefault(r.Modality, config.UnknownValue)
	r.ContextLength = max(r.ContextLength, 0)
	r.Pricing = types.Pricing{
		Prompt:     orDefault(r.Pricing.Prompt, config.DefaultPrice),
		Completion: orDefault(r.Pricing.Completion, config.DefaultPrice),
		Image:      orDefault(r.Pricing.Image, config.DefaultPrice),
		Request:    orDefault(r.Pricing.Request, config.DefaultPrice),
	}
	return r, true
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
