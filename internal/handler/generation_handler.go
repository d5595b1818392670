// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"uigen-go/internal/model"
	"uigen-go/internal/service"
)

// GenerationHandler 处理 UI 生成请求。
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler 创建一个新的 GenerationHandler。
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

type generateRequest struct {
	Messages []model.ChatMessage `json:"messages"`
}

// Generate 总是返回 200，成功与否由 envelope 的 success 字段表示。
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.GenerationEnvelope{Success: false, Message: service.MsgInvalidMessages})
		return
	}
	c.JSON(http.StatusOK, h.generationService.Generate(c.Request.Context(), req.Messages))
}
