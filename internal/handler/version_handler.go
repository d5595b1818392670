package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"uigen-go/internal/service"
	"uigen-go/internal/workspace"
	"uigen-go/pkg/log"
)

// 版本接口的固定文案，存储层的原始错误只写日志。
const (
	msgInvalidCode     = "Invalid code payload."
	msgInvalidID       = "Invalid version id."
	msgInvalidLimit    = "Invalid limit."
	msgVersionNotFound = "Version not found."
	msgLoadFailed      = "Failed to load version."
	msgListFailed      = "Failed to load versions."
	msgStoreFailed     = "Failed to store version."
)

// VersionHandler 处理版本历史相关的 API 请求。
type VersionHandler struct {
	versionService service.VersionService
	sources        map[string]string
}

// NewVersionHandler 创建一个新的 VersionHandler。sources 用于组装沙箱文件。
func NewVersionHandler(versionService service.VersionService, sources map[string]string) *VersionHandler {
	return &VersionHandler{versionService: versionService, sources: sources}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// List 处理 GET /api/versions?limit=N。
func (h *VersionHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		limit = n
	}

	versions, err := h.versionService.ListVersions(c.Request.Context(), limit)
	if err != nil {
		log.Error("Version list error", err)
		fail(c, http.StatusInternalServerError, msgListFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": versions})
}

type createVersionRequest struct {
	Code *string `json:"code"`
}

// Create 处理 POST /api/versions。与最新版本相同的代码直接返回最新版本。
func (h *VersionHandler) Create(c *gin.Context) {
	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == nil || *req.Code == "" {
		fail(c, http.StatusBadRequest, msgInvalidCode)
		return
	}

	version, err := h.versionService.CreateVersion(c.Request.Context(), *req.Code)
	if err != nil {
		log.Error("Version create error", err)
		fail(c, http.StatusInternalServerError, msgStoreFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": version})
}

// parseVersionID 按 JavaScript Number() 的规则解析 id：忽略首尾空白，空串为 0，
// 支持 0x/0o/0b 前缀。NaN 和 Infinity 返回 err；非整数、非正数或超出范围的数值
// 不可能是已分配的 ID，ok 为 false。
func parseVersionID(raw string) (id uint64, ok bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	if len(s) > 2 && s[0] == '0' {
		if base, prefixed := radixPrefixes[s[1]]; prefixed {
			n, perr := strconv.ParseUint(s[2:], base, 64)
			if errors.Is(perr, strconv.ErrRange) {
				return 0, false, nil
			}
			if perr != nil {
				return 0, false, errInvalidVersionID
			}
			return n, n >= 1, nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false, errInvalidVersionID
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, errInvalidVersionID
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false, nil
	}
	return uint64(f), true, nil
}

var errInvalidVersionID = errors.New("invalid version id")

var radixPrefixes = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// Get 处理 GET /api/versions/:id。
func (h *VersionHandler) Get(c *gin.Context) {
	id, ok, err := parseVersionID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	if !ok {
		fail(c, http.StatusNotFound, msgVersionNotFound)
		return
	}

	version, err := h.versionService.GetVersion(c.Request.Context(), id)
	if err != nil {
		log.Error("Version fetch error", err)
		fail(c, http.StatusInternalServerError, msgLoadFailed)
		return
	}
	if version == nil {
		fail(c, http.StatusNotFound, msgVersionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": version})
}

// Sandbox 处理 GET /api/versions/:id/sandbox，返回可以直接交给浏览器沙箱的文件表。
func (h *VersionHandler) Sandbox(c *gin.Context) {
	id, ok, err := parseVersionID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	if !ok {
		fail(c, http.StatusNotFound, msgVersionNotFound)
		return
	}

	version, err := h.versionService.GetVersion(c.Request.Context(), id)
	if err != nil {
		log.Error("Version sandbox error", err)
		fail(c, http.StatusInternalServerError, msgLoadFailed)
		return
	}
	if version == nil {
		fail(c, http.StatusNotFound, msgVersionNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"version": version.Meta(),
			"files":   workspace.SandboxFiles(version.Code, h.sources),
		},
	})
}
