package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/service"
)

type DeliveryHandler struct {
	svc *service.DeliverySvc
}

func NewDeliveryHandler(svc *service.DeliverySvc) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

// POST /v1/bookings/:id/confirm/renter
func (h *DeliveryHandler) RenterConfirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var in struct {
		ConfirmationCode string `json:"confirmation_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actorID, _ := actor(c)
	b, err := h.svc.RenterConfirm(c, actorID, id, in.ConfirmationCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":       b.ID,
		"status":           b.Status,
		"renter_confirmed": b.RenterConfirmed,
		"owner_confirmed":  b.OwnerConfirmed,
	})
}

// POST /v1/bookings/:id/confirm/owner
func (h *DeliveryHandler) OwnerConfirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var in struct {
		ConfirmationCode string `json:"confirmation_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actorID, _ := actor(c)
	b, err := h.svc.OwnerConfirm(c, actorID, id, in.ConfirmationCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":       b.ID,
		"status":           b.Status,
		"renter_confirmed": b.RenterConfirmed,
		"owner_confirmed":  b.OwnerConfirmed,
	})
}

// GET /v1/bookings/:id/delivery
func (h *DeliveryHandler) Status(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, _ := actor(c)
	renter, owner, deliveredAt, err := h.svc.Status(c, actorID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"renter_confirmed": renter,
		"owner_confirmed":  owner,
		"delivered_at":     deliveredAt,
	})
}
