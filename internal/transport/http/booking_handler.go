package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/service"
)

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

// POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		OwnerID      string          `json:"owner_id" binding:"required"`
		RentalItemID string          `json:"rental_item_id" binding:"required"`
		Amount       int64           `json:"payment_amount" binding:"required"`
		ServiceFee   int64           `json:"service_fee"`
		Method       string          `json:"payment_method" binding:"required"`
		Account      string          `json:"payment_account" binding:"required"`
		Requirements json.RawMessage `json:"requirements_data"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	renterID, _ := actor(c)
	b, p, err := h.svc.Create(c, renterID, service.CreateBookingInput{
		OwnerID:      in.OwnerID,
		RentalItemID: in.RentalItemID,
		Amount:       in.Amount,
		ServiceFee:   in.ServiceFee,
		Method:       in.Method,
		Account:      in.Account,
		Requirements: in.Requirements,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, domain.NewSnapshot(b, p, false))
}

// POST /v1/bookings/:id/accept (owner of the booking)
func (h *BookingHandler) Accept(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, _ := actor(c)
	b, err := h.svc.Accept(c, actorID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":        b.ID,
		"status":            b.Status,
		"confirmation_code": b.ConfirmationCode,
		"code_expiry":       b.CodeExpiry,
	})
}

// POST /v1/bookings/:id/reject (owner of the booking)
func (h *BookingHandler) Reject(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in)
	actorID, _ := actor(c)
	b, err := h.svc.Reject(c, actorID, id, in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": b.ID, "status": b.Status})
}

// POST /v1/bookings/:id/dispute (either party)
func (h *BookingHandler) Dispute(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in)
	actorID, _ := actor(c)
	b, err := h.svc.Dispute(c, actorID, id, in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": b.ID, "status": b.Status})
}

// GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, role := actor(c)
	snap, err := h.svc.Get(c, actorID, role == "ADMIN", id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GET /v1/bookings?page=1&page_size=20&as=owner
func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	actorID, _ := actor(c)
	var (
		list  []domain.Booking
		total int64
		err   error
	)
	if c.Query("as") == "owner" {
		list, total, err = h.svc.ListForOwner(c, actorID, page-1, size)
	} else {
		list, total, err = h.svc.ListForRenter(c, actorID, page-1, size)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "total": total})
}
