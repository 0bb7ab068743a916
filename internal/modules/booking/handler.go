package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/response"
	"studiobooking/internal/schedule"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.List)
	rg.GET("/bookings/slots", h.Slots)
	rg.GET("/bookings/:id", h.Get)
	rg.PATCH("/bookings/:id", h.Update)
	rg.DELETE("/bookings/:id", h.Delete)
}

func (h *Handler) RegisterStaff(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/history", h.History)
	rg.GET("/bookings/stats", h.Stats)
}

func actor(c *gin.Context) (int64, domain.UserRole) {
	return c.GetInt64("user_id"), domain.UserRole(c.GetString("role"))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	actorID, role := actor(c)
	b, alts, err := h.service.Create(c.Request.Context(), actorID, role, req)
	if err != nil {
		h.writeBookingError(c, err, alts)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) writeBookingError(c *gin.Context, err error, alts []schedule.Slot) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrEngineer):
		response.Error(c, http.StatusBadRequest, "INVALID_ENGINEER", "Selected user is not a bookable engineer")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrConflict), errors.Is(err, ErrOverbooking):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_CONFLICT",
				"message": "Requested time is not available",
			},
			"data": ConflictResponse{Alternatives: alts},
		})
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	actorID, role := actor(c)
	out, err := h.service.List(c.Request.Context(), actorID, role, q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Slots(c *gin.Context) {
	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	slots, err := h.service.Slots(c.Request.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, ErrEngineer):
			response.Error(c, http.StatusBadRequest, "INVALID_ENGINEER", "Selected user is not a bookable engineer")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot query")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search slots")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	actorID, role := actor(c)
	b, err := h.service.Get(c.Request.Context(), id, actorID, role)
	if err != nil {
		h.writeBookingError(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	actorID, role := actor(c)
	b, alts, err := h.service.Update(c.Request.Context(), id, actorID, role, req)
	if err != nil {
		h.writeBookingError(c, err, alts)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	actorID, role := actor(c)
	if err := h.service.Delete(c.Request.Context(), id, actorID, role); err != nil {
		h.writeBookingError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) History(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	out, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking history")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Stats(c *gin.Context) {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from timestamp")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid to timestamp")
			return
		}
	}
	stats, err := h.service.Stats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
