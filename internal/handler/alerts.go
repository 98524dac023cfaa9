package handler

import (
	"net/http"

	"stockpos/internal/alert"
	"stockpos/internal/dto"
	"stockpos/internal/notify"

	"github.com/gin-gonic/gin"
)

type AlertsHandler struct{ monitor *alert.Monitor }

func NewAlertsHandler(monitor *alert.Monitor) *AlertsHandler {
	return &AlertsHandler{monitor: monitor}
}

// Get returns the current alert report: out-of-stock and low-stock products
// plus the badge count.
func (h *AlertsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromReport(h.monitor.Current()))
}

type NotificationsHandler struct{ hub *notify.Hub }

func NewNotificationsHandler(hub *notify.Hub) *NotificationsHandler {
	return &NotificationsHandler{hub: hub}
}

// Recent returns the retained toasts, oldest first. The UI polls this and
// dismisses each toast client-side after a few seconds.
func (h *NotificationsHandler) Recent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.hub.Recent()})
}
