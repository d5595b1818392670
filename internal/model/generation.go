package model

// GenerationEnvelope 是生成接口和版本接口统一使用的响应包装。
type GenerationEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Plan 是模型给出的布局规划。
type Plan struct {
	Goal       string   `json:"goal"`
	Layout     string   `json:"layout"`
	Components []string `json:"components"`
}

// GenerationResult 是经过规范化和 schema 校验后的模型输出。
type GenerationResult struct {
	Plan        *Plan  `json:"plan,omitempty"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}
