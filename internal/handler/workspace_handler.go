package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"uigen-go/internal/model"
	"uigen-go/internal/service"
	"uigen-go/internal/workspace"
	"uigen-go/pkg/log"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源
		},
	}
)

// 工作台 WebSocket 帧类型。
const (
	framePrompt     = "prompt"
	frameSave       = "save"
	frameLoad       = "load"
	frameReset      = "reset"
	frameMessage    = "message"
	frameGeneration = "generation"
	frameVersion    = "version"
	frameError      = "error"
	frameCompletion = "completion"
)

// clientFrame 是客户端发来的指令。
type clientFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	ID      uint64 `json:"id,omitempty"`
}

// serverFrame 是发给客户端的消息，按 Type 使用不同字段。
type serverFrame struct {
	Type      string            `json:"type"`
	Role      string            `json:"role,omitempty"`
	Content   string            `json:"content,omitempty"`
	Message   string            `json:"message,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
	Files     map[string]string `json:"files,omitempty"`
	Status    string            `json:"status,omitempty"`
	Timestamp int64             `json:"timestamp,omitempty"`
}

// WorkspaceHandler 负责处理工作台 WebSocket 连接，每个连接对应一个独立会话。
type WorkspaceHandler struct {
	generationService service.GenerationService
	versionService    service.VersionService
	sources           map[string]string
}

// NewWorkspaceHandler 创建一个新的 WorkspaceHandler。
func NewWorkspaceHandler(generationService service.GenerationService, versionService service.VersionService, sources map[string]string) *WorkspaceHandler {
	return &WorkspaceHandler{
		generationService: generationService,
		versionService:    versionService,
		sources:           sources,
	}
}

// Handle 处理一个传入的 WebSocket 连接。指令在读循环中顺序执行。
func (h *WorkspaceHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	session := workspace.NewSession(h.generationService, h.versionService, h.sources)
	log.Infof("工作台连接已建立, session=%s", session.ID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.write(conn, serverFrame{Type: frameError, Message: "Invalid frame."})
			continue
		}

		ctx := c.Request.Context()
		switch frame.Type {
		case framePrompt:
			reply, err := session.Submit(ctx, frame.Content)
			if err != nil {
				// 空白输入直接忽略
				continue
			}
			h.write(conn, serverFrame{Type: frameMessage, Role: reply.Message.Role, Content: reply.Message.Content})
			if reply.Generation != nil {
				h.writeGeneration(conn, session, reply.Generation)
			}
			h.write(conn, completionFrame())

		case frameSave:
			version, err := session.Save(ctx)
			switch {
			case errors.Is(err, workspace.ErrNothingToSave):
				h.write(conn, serverFrame{Type: frameError, Message: "Nothing to save yet."})
			case err != nil:
				log.Error("工作台保存版本失败", err)
				h.write(conn, serverFrame{Type: frameError, Message: msgStoreFailed})
			default:
				h.write(conn, serverFrame{Type: frameVersion, Data: version})
			}

		case frameLoad:
			version, err := session.Load(ctx, frame.ID)
			switch {
			case errors.Is(err, workspace.ErrVersionNotFound):
				h.write(conn, serverFrame{Type: frameError, Message: msgVersionNotFound})
			case err != nil:
				log.Error("工作台加载版本失败", err)
				h.write(conn, serverFrame{Type: frameError, Message: msgLoadFailed})
			default:
				h.write(conn, serverFrame{Type: frameVersion, Data: version})
				h.writeGeneration(conn, session, session.Current())
			}

		case frameReset:
			session.Reset()
			h.write(conn, completionFrame())

		default:
			h.write(conn, serverFrame{Type: frameError, Message: "Unknown frame type."})
		}
	}
	log.Infof("工作台连接已关闭, session=%s", session.ID)
}

func (h *WorkspaceHandler) writeGeneration(conn *websocket.Conn, session *workspace.Session, result *model.GenerationResult) {
	h.write(conn, serverFrame{Type: frameGeneration, Data: result, Files: session.Files()})
}

func (h *WorkspaceHandler) write(conn *websocket.Conn, frame serverFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Warnf("写入 WebSocket 消息失败: %v", err)
	}
}

func completionFrame() serverFrame {
	return serverFrame{Type: frameCompletion, Status: "finished", Timestamp: time.Now().UnixMilli()}
}
