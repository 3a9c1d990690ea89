package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/service"
)

func (s *Server) listNotices(c *gin.Context) {
	var (
		notices []models.MaintenanceNotice
		err     error
	)
	switch c.Query("status") {
	case "pending":
		notices, err = s.notices.Pending(c.Request.Context())
	case "processed":
		notices, err = s.notices.Processed(c.Request.Context())
	case "":
		notices, err = s.notices.List(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid input",
			"details": gin.H{"status": "status must be pending or processed"},
		})
		return
	}
	if err != nil {
		s.renderError(c, err)
		return
	}

	// Without a page parameter the full list is returned as a plain array.
	rawPage := c.Query("page")
	if rawPage == "" {
		c.JSON(http.StatusOK, notices)
		return
	}
	page, convErr := strconv.Atoi(rawPage)
	if convErr != nil {
		page = 1
	}
	items, clamped := service.Paginate(notices, page)
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"page":       clamped,
		"pageSize":   service.PageSize,
		"totalPages": service.PageCount(len(notices)),
		"totalItems": len(notices),
	})
}

func (s *Server) createNotice(c *gin.Context) {
	var input service.NoticeInput
	if !s.bindJSON(c, &input) {
		return
	}
	notice, err := s.notices.Create(c.Request.Context(), input)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notice)
}

func (s *Server) getNotice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	notice, err := s.notices.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (s *Server) updateNotice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var patch service.NoticePatch
	if !s.bindJSON(c, &patch) {
		return
	}
	notice, err := s.notices.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (s *Server) getSelection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"selected": s.notices.Selected()})
}

type selectionPayload struct {
	Action    string   `json:"action" binding:"required"`
	NoticeIDs []string `json:"noticeIds"`
	Page      int      `json:"page"`
}

func (s *Server) updateSelection(c *gin.Context) {
	var payload selectionPayload
	if !s.bindJSON(c, &payload) {
		return
	}

	ids, ok := parseIDs(c, payload.NoticeIDs)
	if !ok {
		return
	}

	var err error
	switch payload.Action {
	case "select":
		s.notices.Select(ids...)
	case "deselect":
		s.notices.Deselect(ids...)
	case "selectAllPending":
		err = s.notices.SelectAllPending(c.Request.Context())
	case "deselectAllPending":
		err = s.notices.DeselectAllPending(c.Request.Context())
	case "selectPage":
		err = s.notices.SelectPendingPage(c.Request.Context(), payload.Page)
	case "deselectPage":
		err = s.notices.DeselectPendingPage(c.Request.Context(), payload.Page)
	case "clear":
		s.notices.ClearSelection()
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid input",
			"details": gin.H{"action": "unknown selection action"},
		})
		return
	}
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": s.notices.Selected()})
}

type sendPayload struct {
	NoticeIDs []string `json:"noticeIds"`
}

func (s *Server) sendNotices(c *gin.Context) {
	var payload sendPayload
	if c.Request.ContentLength > 0 {
		if !s.bindJSON(c, &payload) {
			return
		}
	}

	var result service.SendResult
	if len(payload.NoticeIDs) == 0 {
		result = s.notices.SendSelected(c.Request.Context())
	} else {
		ids, ok := parseIDs(c, payload.NoticeIDs)
		if !ok {
			return
		}
		result = s.notices.SendToSAP(c.Request.Context(), ids)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listSAPOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func parseIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notice id: " + r})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
