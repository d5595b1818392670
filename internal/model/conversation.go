// Package model 包含了应用的数据模型定义。
package model

// 对话角色。system 只由服务端合成，不接受客户端传入。
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 代表会话中的一条消息，只在单个工作台会话内存活，不持久化。
type ChatMessage struct {
	Role    string `json:"role"` // "user" 或 "assistant"
	Content string `json:"content"`
}
