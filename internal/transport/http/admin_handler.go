package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/service"
)

type AdminHandler struct {
	svc *service.AdminSvc
}

func NewAdminHandler(svc *service.AdminSvc) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// GET /v1/admin/held-payments
func (h *AdminHandler) ListHeld(c *gin.Context) {
	held, err := h.svc.ListHeld(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"held_payments": held, "total_held": len(held)})
}

// POST /v1/admin/held-payments/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	receipt, err := h.svc.Approve(c, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// POST /v1/admin/held-payments/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var in struct {
		Reason string `json:"rejection_reason"`
	}
	_ = c.ShouldBindJSON(&in)
	p, err := h.svc.Reject(c, id, in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":             p.BookingID,
		"payment_status":         p.Status,
		"admin_rejection_reason": p.AdminRejectionReason,
	})
}
