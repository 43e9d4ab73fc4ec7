package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carvia-mobility/service-rental/internal/application"
	carDomain "github.com/carvia-mobility/service-rental/internal/domain/car"
	"github.com/carvia-mobility/service-rental/internal/domain/user"
	"github.com/carvia-mobility/service-rental/pkg/auth"
	"github.com/carvia-mobility/service-rental/pkg/middleware"
	"github.com/carvia-mobility/service-rental/pkg/response"
)

// CarHandler handles HTTP requests for car operations.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers all car routes on the given router group.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cars := r.Group("/api/v1/cars")
	cars.Use(middleware.AuthMiddleware(jwtManager))
	{
		cars.POST("", h.CreateCar)
		cars.GET("", h.ListCars)
		cars.GET("/:id", h.GetCar)
		cars.PATCH("/:id", h.PatchCar)
	}
}

// CreateCar handles POST /api/v1/cars. The owner is always the
// authenticated user.
func (h *CarHandler) CreateCar(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), user.UserID(actorID), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListCars handles GET /api/v1/cars.
func (h *CarHandler) ListCars(c *gin.Context) {
	result, err := h.service.GetAllCars(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCar handles GET /api/v1/cars/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, ok := parseCarID(c)
	if !ok {
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PatchCar handles PATCH /api/v1/cars/:id.
func (h *CarHandler) PatchCar(c *gin.Context) {
	carID, ok := parseCarID(c)
	if !ok {
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.PatchCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PatchCar(c.Request.Context(), carID, user.UserID(actorID), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseCarID(c *gin.Context) (carDomain.CarID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid car id")
		return 0, false
	}
	return carDomain.CarID(id), true
}
