// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uigen-go/internal/model"
	"uigen-go/pkg/jsonrepair"
	"uigen-go/pkg/llm"
	"uigen-go/pkg/log"
)

// 生成接口返回给客户端的固定文案。
const (
	MsgGenerated       = "UI generated successfully"
	MsgNonJSON         = "AI returned non-JSON output. Please try again."
	MsgGenerateFailed  = "Failed to generate UI. Please try again."
	MsgInvalidMessages = "Invalid messages payload."
)

// ErrInvalidMessages 表示客户端传入的对话不可用。
var ErrInvalidMessages = errors.New("invalid messages payload")

// GenerationService 把对话转成一次模型调用，结果统一包装成 envelope，不返回 error。
type GenerationService interface {
	Generate(ctx context.Context, messages []model.ChatMessage) model.GenerationEnvelope
}

type generationService struct {
	llmClient    llm.Client
	systemPrompt string
	params       *llm.GenerationParams
}

// NewGenerationService 创建一个新的 GenerationService。systemPrompt 在启动时构建一次。
func NewGenerationService(llmClient llm.Client, systemPrompt string, params *llm.GenerationParams) GenerationService {
	return &generationService{
		llmClient:    llmClient,
		systemPrompt: systemPrompt,
		params:       params,
	}
}

// Generate 调用模型并尽力从输出中恢复 JSON。data 是解析出的原始值，尚未经过 schema 校验。
func (s *generationService) Generate(ctx context.Context, messages []model.ChatMessage) (env model.GenerationEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("AI generation panicked: %v", r)
			env = failure(MsgGenerateFailed)
		}
	}()

	if err := validateMessages(messages); err != nil {
		log.Warnf("拒绝生成请求: %v", err)
		return failure(MsgInvalidMessages)
	}

	llmMsgs := make([]llm.Message, 0, len(messages)+1)
	llmMsgs = append(llmMsgs, llm.Message{Role: model.RoleSystem, Content: s.systemPrompt})
	for _, m := range messages {
		llmMsgs = append(llmMsgs, llm.Message{Role: m.Role, Content: m.Content})
	}

	content, err := s.llmClient.ChatJSON(ctx, llmMsgs, s.params)
	if errors.Is(err, llm.ErrEmptyContent) {
		log.Warn("AI returned empty content")
		return failure(MsgNonJSON)
	}
	if err != nil {
		log.Error("AI generation failed", err)
		return failure(MsgGenerateFailed)
	}

	parsed, err := jsonrepair.Extract(content)
	if err != nil {
		log.Warnw("AI returned non-JSON output", "length", len(content))
		return failure(MsgNonJSON)
	}
	return model.GenerationEnvelope{Success: true, Message: MsgGenerated, Data: parsed}
}

func failure(message string) model.GenerationEnvelope {
	return model.GenerationEnvelope{Success: false, Message: message, Data: nil}
}

// validateMessages 只接受 user/assistant 消息，最后一条必须是内容非空的 user 消息。
// 历史中的 assistant 消息可以为空（模型可能返回空的 explanation）。
func validateMessages(messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidMessages)
	}
	for i, m := range messages {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidMessages, i, m.Role)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleUser {
		return fmt.Errorf("%w: last message must come from the user", ErrInvalidMessages)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last user message is empty", ErrInvalidMessages)
	}
	return nil
}
