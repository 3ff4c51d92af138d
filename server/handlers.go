package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"modelexplorer/explorer"
	"modelexplorer/types"
	"modelexplorer/utils"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	ex *explorer.Explorer
}

// modelView 列表项，附带展示用的价格和免费标记
type modelView struct {
	types.ModelRecord
	Free         bool   `json:"free"`
	PricingLabel string `json:"pricingLabel"`
}

func toViews(models []types.ModelRecord) []modelView {
	out := make([]modelView, len(models))
	for i, m := range models {
		out[i] = modelView{ModelRecord: m, Free: explorer.IsFree(m), PricingLabel: explorer.FormatPricing(m)}
	}
	return out
}

func (h *handlers) health(c *gin.Context) {
	st := h.ex.Status()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"state":  st.State,
		"models": h.ex.Len(),
	})
}

func (h *handlers) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.ex.Status())
}

func (h *handlers) columns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"columns": types.Columns})
}

// listModels 无状态查询，参数可重复也可逗号分隔
func (h *handlers) listModels(c *gin.Context) {
	filter, sortState, err := parseQuery(c)
	if err != nil {
		handleBadRequest(c, err)
		return
	}

	models := h.ex.Query(filter, sortState)
	c.JSON(http.StatusOK, gin.H{
		"filter": filter,
		"sort":   sortState,
		"count":  len(models),
		"models": toViews(models),
	})
}

func parseQuery(c *gin.Context) (explorer.FilterState, explorer.SortState, error) {
	filter := explorer.FilterState{
		Search:     strings.TrimSpace(c.Query("search")),
		Providers:  queryList(c, "provider"),
		Modalities: queryList(c, "modality"),
		Pricing:    queryList(c, "pricing"),
	}

	if raw := c.Query("min_context"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, explorer.SortState{}, fmt.Errorf("invalid min_context: %q", raw)
		}
		filter.MinContext = n
	}

	pricing := filter.Pricing
	if err := (explorer.FilterPatch{Pricing: &pricing}).Validate(); err != nil {
		return filter, explorer.SortState{}, err
	}

	sortState := explorer.DefaultSort
	if raw := c.Query("sort"); raw != "" {
		field, err := explorer.ParseSortField(raw)
		if err != nil {
			return filter, sortState, err
		}
		sortState.Field = field
	}
	dir, err := explorer.ParseDirection(c.Query("dir"))
	if err != nil {
		return filter, sortState, err
	}
	sortState.Direction = dir

	return filter, sortState, nil
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *handlers) getModel(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		respondError(c, http.StatusBadRequest, "%s", "model id is required")
		return
	}

	m, ok := h.ex.Model(id)
	if !ok {
		respondError(c, http.StatusNotFound, "model not found: %s", id)
		return
	}
	c.JSON(http.StatusOK, modelView{ModelRecord: m, Free: explorer.IsFree(m), PricingLabel: explorer.FormatPricing(m)})
}

func (h *handlers) providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.ex.AvailableProviders(c.Query("q"))})
}

func (h *handlers) modalities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modalities": h.ex.AvailableModalities(c.Query("q"))})
}

func (h *handlers) refresh(c *gin.Context) {
	n, err := h.ex.Refresh(c.Request.Context())
	if err != nil {
		handleFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  n,
		"status": h.ex.Status(),
	})
}

func (h *handlers) view(c *gin.Context) {
	v := h.ex.View()
	c.JSON(http.StatusOK, gin.H{
		"filter": v.Filter,
		"sort":   v.Sort,
		"total":  v.Total,
		"count":  v.Count,
		"models": toViews(v.Models),
	})
}

func (h *handlers) patchFilter(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handleBadRequest(c, fmt.Errorf("读取请求体失败: %w", err))
		return
	}

	var patch explorer.FilterPatch
	if err := utils.SafeUnmarshal(body, &patch); err != nil {
		handleBadRequest(c, fmt.Errorf("解析请求体失败: %w", err))
		return
	}

	filter, err := h.ex.SetFilter(patch)
	if err != nil {
		handleBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter})
}

func (h *handlers) sortBy(c *gin.Context) {
	s, err := h.ex.SortBy(c.Param("field"))
	if err != nil {
		handleBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": s})
}

func (h *handlers) quickFilter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filter": h.ex.QuickFilter(c.Param("provider"))})
}

func (h *handlers) resetFilters(c *gin.Context) {
	h.ex.ResetFilters()
	c.JSON(http.StatusOK, gin.H{"filter": h.ex.Filter()})
}
