package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"uigen-go/internal/registry"
)

// RegistryHandler 暴露只读的组件目录。
type RegistryHandler struct {
	registry registry.Registry
}

// NewRegistryHandler 创建一个新的 RegistryHandler。
func NewRegistryHandler(reg registry.Registry) *RegistryHandler {
	return &RegistryHandler{registry: reg}
}

// List 按注册顺序返回所有组件描述。
func (h *RegistryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.registry.All()})
}
