// Package workspace 实现单个用户的生成工作台：对话历史、当前生成结果、版本保存与恢复。
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"uigen-go/internal/model"
	"uigen-go/internal/service"
	"uigen-go/internal/validator"
	"uigen-go/pkg/log"
)

// 回复给用户的道歉文案。
const (
	ApologyErrorPrefix = "Sorry, I encountered an error: "
	ApologyInvalid     = "Sorry, I received an invalid response from the AI. Please try again."
	ApologyNetwork     = "Sorry, a network error occurred."
)

var (
	// ErrBlankInput 表示输入为空白，本轮被忽略。
	ErrBlankInput = errors.New("workspace: blank input")
	// ErrNothingToSave 表示还没有可以保存的生成结果。
	ErrNothingToSave = errors.New("workspace: no generated code to save")
	// ErrVersionNotFound 表示要加载的版本不存在。
	ErrVersionNotFound = errors.New("workspace: version not found")
)

// Reply 是一轮提交的结果。Generation 只在本轮生成成功时非 nil。
type Reply struct {
	Message    model.ChatMessage
	Generation *model.GenerationResult
}

// Session 保存一个工作台连接的状态，只存在于内存中。
type Session struct {
	ID string

	generator service.GenerationService
	versions  service.VersionService
	sources   map[string]string

	mu       sync.Mutex
	messages []model.ChatMessage
	current  *model.GenerationResult
}

// NewSession 创建一个新的会话。sources 是组件库源码，用于组装沙箱文件。
func NewSession(generator service.GenerationService, versions service.VersionService, sources map[string]string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		generator: generator,
		versions:  versions,
		sources:   sources,
	}
}

// Messages 返回对话历史的副本。
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Current 返回当前展示的生成结果，可能为 nil。
func (s *Session) Current() *model.GenerationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Submit 追加一条用户消息并带着完整历史请求生成。
// 任何失败都会变成一条 assistant 道歉消息，不会返回给调用方。
func (s *Session) Submit(ctx context.Context, input string) (*Reply, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrBlankInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, model.ChatMessage{Role: model.RoleUser, Content: input})
	history := make([]model.ChatMessage, len(s.messages))
	copy(history, s.messages)

	reply := &Reply{}
	env, err := s.generate(ctx, history)
	switch {
	case err != nil:
		log.Warnf("工作台 %s 生成失败: %v", s.ID, err)
		reply.Message = assistant(ApologyNetwork)
	case !env.Success:
		reply.Message = assistant(ApologyErrorPrefix + env.Message)
	default:
		result, verr := validator.Validate(env.Data)
		if verr != nil {
			log.Warnf("工作台 %s 收到无效结果: %v", s.ID, verr)
			reply.Message = assistant(ApologyInvalid)
			break
		}
		s.current = result
		reply.Generation = result
		reply.Message = assistant(result.Explanation)
	}

	s.messages = append(s.messages, reply.Message)
	return reply, nil
}

// generate 把生成器的 panic 和请求取消都当作网络错误。
func (s *Session) generate(ctx context.Context, history []model.ChatMessage) (env model.GenerationEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	env = s.generator.Generate(ctx, history)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return env, ctxErr
	}
	return env, nil
}

func assistant(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.RoleAssistant, Content: content}
}

// Files 返回当前代码对应的沙箱文件表。
func (s *Session) Files() map[string]string {
	s.mu.Lock()
	code := ""
	if s.current != nil {
		code = s.current.Code
	}
	s.mu.Unlock()
	return SandboxFiles(code, s.sources)
}

// Save 把当前代码保存为一个版本，与最新版本相同时返回已有记录。
func (s *Session) Save(ctx context.Context) (*model.Version, error) {
	current := s.Current()
	if current == nil {
		return nil, ErrNothingToSave
	}
	return s.versions.CreateVersion(ctx, current.Code)
}

// Load 把已保存的版本恢复为当前代码。对话历史保持不变。
func (s *Session) Load(ctx context.Context, id uint64) (*model.Version, error) {
	v, err := s.versions.GetVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVersionNotFound
	}
	s.mu.Lock()
	s.current = &model.GenerationResult{Code: v.Code}
	s.mu.Unlock()
	return v, nil
}

// Reset 清空对话和当前结果。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.current = nil
}
