package notification

import (
	"net/http"
	"strconv"
	"time"

	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Message       string  `json:"message"`
	Severity      string  `json:"severity"`
	RelatedEntity *string `json:"related_entity,omitempty"`
	RelatedID     *string `json:"related_id,omitempty"`
	Read          bool    `json:"read"`
	CreatedAt     string  `json:"created_at"`
}

// Handler exposes the read side of notifications: an inbox per recipient
// plus a mark-read toggle. Raising notifications stays internal to the
// services.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{repo: repo, logger: l}
}

func (h *Handler) recipientID(c *gin.Context) string {
	if id := c.GetString("employee_id"); id != "" {
		return id
	}
	return c.GetString("user_id_validated")
}

func (h *Handler) ListMine(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	rows, err := h.repo.ListForRecipient(c.Request.Context(), h.recipientID(c), limit)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load notifications", nil)
		return
	}

	out := make([]NotificationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, NotificationResponse{
			ID:            row.ID.String(),
			Title:         row.Title,
			Message:       row.Message,
			Severity:      string(row.Severity),
			RelatedEntity: row.RelatedEntity,
			RelatedID:     row.RelatedID,
			Read:          row.ReadAt != nil,
			CreatedAt:     row.CreatedAt.Format(time.RFC3339),
		})
	}
	response.Success(c, http.StatusOK, out, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.repo.MarkRead(c.Request.Context(), h.recipientID(c), c.Param("id")); err != nil {
		h.logger.Error("mark notification read failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not update notification", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}
