package types

// ModelRecord 目录中的一个模型条目（归一化后）
type ModelRecord struct {
	ID            string  `json:"id"`
	Provider      string  `json:"provider"`
	Name          string  `json:"name"`
	Modality      string  `json:"modality"`
	Pricing       Pricing `json:"pricing"`
	ContextLength int     `json:"contextLength"`

	// 以下字段仅用于详情展示，不参与过滤
	Description string `json:"description,omitempty"`
	Tokenizer   string `json:"tokenizer,omitempty"`
	Created     int64  `json:"created,omitempty"`
}

// Pricing 固定四个价格键，每个值是十进制字符串
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
	Image      string `json:"image"`
	Request    string `json:"request"`
}

// Values 按 prompt, completion, image, request 的顺序返回价格
func (p Pricing) Values() []string {
	return []string{p.Prompt, p.Completion, p.Image, p.Request}
}

// PricingKeys 与Values顺序一致的键名
var PricingKeys = []string{"prompt", "completion", "image", "request"}

// Column 可展示/可排序的列
type Column struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Columns 所有列定义
var Columns = []Column{
	{ID: "provider", Label: "Provider", Description: "The service or organization providing the AI model"},
	{ID: "name", Label: "Model Name", Description: "Unique identifier and name of the AI model"},
	{ID: "modality", Label: "Modality", Description: "Input and output capabilities of the model (text, image, etc.)"},
	{ID: "pricing", Label: "Pricing", Description: "Cost structure for using the model (per token/request)"},
	{ID: "contextLength", Label: "Context Length", Description: "Maximum number of tokens the model can process in a single request"},
}
