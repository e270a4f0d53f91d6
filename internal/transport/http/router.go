// Package http is the gin surface over the booking core. Handlers bind
// input, pull the actor out of the JWT middleware, and hand both to the
// services; authorization against the booking's parties happens inside the
// core.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/service"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/auth"
)

type Services struct {
	Auth     *service.AuthSvc
	Booking  *service.BookingSvc
	Delivery *service.DeliverySvc
	Admin    *service.AdminSvc
}

func NewRouter(signer *auth.Signer, s Services) *gin.Engine {
	r := gin.Default()

	ah := NewAuthHandler(s.Auth)
	bh := NewBookingHandler(s.Booking)
	dh := NewDeliveryHandler(s.Delivery)
	adh := NewAdminHandler(s.Admin)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/login", ah.Login)

		secured := v1.Group("")
		secured.Use(JWTAuth(signer))
		{
			secured.POST("/bookings", RequireRole("RENTER"), bh.Create)
			secured.GET("/bookings", bh.List)
			secured.GET("/bookings/:id", bh.Get)

			secured.POST("/bookings/:id/accept", RequireRole("OWNER"), bh.Accept)
			secured.POST("/bookings/:id/reject", RequireRole("OWNER"), bh.Reject)
			secured.POST("/bookings/:id/dispute", bh.Dispute)

			secured.POST("/bookings/:id/confirm/renter", RequireRole("RENTER"), dh.RenterConfirm)
			secured.POST("/bookings/:id/confirm/owner", RequireRole("OWNER"), dh.OwnerConfirm)
			secured.GET("/bookings/:id/delivery", dh.Status)

			admin := secured.Group("/admin")
			admin.Use(RequireRole("ADMIN"))
			{
				admin.GET("/held-payments", adh.ListHeld)
				admin.POST("/held-payments/:id/approve", adh.Approve)
				admin.POST("/held-payments/:id/reject", adh.Reject)
			}
		}
	}
	return r
}
