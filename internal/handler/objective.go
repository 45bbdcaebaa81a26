package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ompps/backend/internal/service"
)

type ObjectiveHandler struct {
	wsService  *service.WorkspaceService
	objService *service.ObjectiveService
}

func NewObjectiveHandler(wsService *service.WorkspaceService, objService *service.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{wsService: wsService, objService: objService}
}

func (h *ObjectiveHandler) Get(c *gin.Context) {
	ws, err := h.wsService.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	view, err := h.objService.GetView(ws.ID, c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace":   ws,
		"objective":   view.Objective,
		"groups":      view.Groups,
		"short_terms": view.ShortTerms,
	})
}

type SaveObjectiveRequest struct {
	Category     string               `json:"category"`
	TargetDate   string               `json:"target_date"`
	TeachingGoal string               `json:"teaching_goal"`
	Groups       []service.GroupInput `json:"groups"`
}

// Save 接受 JSON（已解析的群組清單）或傳統表單
// （long_term_goal_<N> / short_term_<N>[] 扁平鍵）兩種提交方式
func (h *ObjectiveHandler) Save(c *gin.Context) {
	ws, err := h.wsService.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req SaveObjectiveRequest
	if strings.Contains(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		form := c.Request.PostForm
		req.Category = form.Get("category")
		req.TargetDate = form.Get("target_date")
		req.TeachingGoal = form.Get("teaching_goal")
		req.Groups = parseGroupPayload(form)
	}

	err = h.objService.Save(ws.ID, req.Category, req.TargetDate, req.TeachingGoal, req.Groups)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoLongTermGroups), errors.Is(err, service.ErrAllGroupsBlank):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已儲存：教學目標（含多組長期/短期目標）"})
}
