package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carvia-mobility/service-rental/internal/application"
	"github.com/carvia-mobility/service-rental/pkg/auth"
	"github.com/carvia-mobility/service-rental/pkg/middleware"
	"github.com/carvia-mobility/service-rental/pkg/response"
)

// AdminHandler handles administrative booking surfaces.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes, gated on the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings, an unrestricted paged
// read of all bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetBookingsPage(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	bookings, err := h.service.GetAllBookings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	byState := make(map[string]int64)
	for _, b := range bookings {
		byState[b.State]++
	}

	response.Success(c, gin.H{
		"total_bookings": len(bookings),
		"by_state":       byState,
	})
}
