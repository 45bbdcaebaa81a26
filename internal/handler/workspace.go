package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/ompps/backend/internal/service"
)

type WorkspaceHandler struct {
	service *service.WorkspaceService
}

func NewWorkspaceHandler(service *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

type CreateWorkspaceRequest struct {
	StudentName string `json:"student_name" form:"student_name"`
	Agency      string `json:"agency" form:"agency"`
	Category    string `json:"category" form:"category"`
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.service.Create(req.StudentName, req.Agency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNameRequired), errors.Is(err, service.ErrAgencyRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// CreateDraft 建立工作區並播種預設教學目標草稿
func (h *WorkspaceHandler) CreateDraft(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.service.CreateDraft(req.StudentName, req.Agency, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNameRequired), errors.Is(err, service.ErrAgencyRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"workspace": ws,
		"message":   "已建立新草稿，代碼：" + ws.Code + "（請記下來方便「繼續未完成」）",
	})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	ws, err := h.service.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ws)
}

// DeleteByCode 管理端刪除：代碼由表單欄位或 JSON body 提供
func (h *WorkspaceHandler) DeleteByCode(c *gin.Context) {
	var code string
	if strings.Contains(c.ContentType(), "application/json") {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			code = req.Code
		}
	} else {
		code = c.PostForm("code")
	}
	code = strings.TrimSpace(code)

	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing code"})
		return
	}

	if err := h.service.Delete(code); err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			return
		}
		klog.Errorf("刪除工作區失敗: code=%s, error=%v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
