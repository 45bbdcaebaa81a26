package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ompps/backend/internal/service"
)

type RecordHandler struct {
	wsService  *service.WorkspaceService
	recService *service.RecordService
}

func NewRecordHandler(wsService *service.WorkspaceService, recService *service.RecordService) *RecordHandler {
	return &RecordHandler{wsService: wsService, recService: recService}
}

func (h *RecordHandler) List(c *gin.Context) {
	ws, err := h.wsService.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recs, err := h.recService.List(ws.ID, c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recs)
}

type AddRecordRequest struct {
	Category      string `json:"category" form:"category"`
	TeachDate     string `json:"teach_date" form:"teach_date"`
	TeachTime     string `json:"teach_time" form:"teach_time"`
	Effectiveness string `json:"effectiveness" form:"effectiveness"`
}

func (h *RecordHandler) Add(c *gin.Context) {
	ws, err := h.wsService.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req AddRecordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.recService.Add(ws.ID, req.Category, req.TeachDate, req.TeachTime, req.Effectiveness)
	if err != nil {
		if errors.Is(err, service.ErrTeachTimeRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"record":  rec,
		"message": "已新增一筆教學記錄。",
	})
}

// Delete id 不屬於該工作區與類別時落空，仍回成功
func (h *RecordHandler) Delete(c *gin.Context) {
	ws, err := h.wsService.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.recService.Delete(ws.ID, c.Query("category"), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已刪除該筆記錄。"})
}
