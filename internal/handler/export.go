package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ompps/backend/internal/model"
	"github.com/ompps/backend/internal/service"
)

type ExportHandler struct {
	service *service.ExportService
}

func NewExportHandler(service *service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download 匯出單一類別或 both 的純文字報表（UTF-8 含 BOM 附件）
func (h *ExportHandler) Download(c *gin.Context) {
	code := c.Param("code")
	selector := c.DefaultQuery("category", model.CategoryBoth)

	data, filename, err := h.service.ExportFile(code, selector)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 檔名含中文，補 RFC 5987 編碼讓各家瀏覽器都拿得到正確檔名
	escaped := url.PathEscape(filename)
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
