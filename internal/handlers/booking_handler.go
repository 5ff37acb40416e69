package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utsavhq/utsav-api/internal/middleware"
	"github.com/utsavhq/utsav-api/internal/models"
	"github.com/utsavhq/utsav-api/internal/services"
)

// RequestBooking handles POST /booking/request-booking.
func RequestBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		var req models.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		view, err := bs.CreateBooking(c.Request.Context(), claims.UserID, &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(view, "Booking created successfully"))
	}
}

// ListUserBookings handles GET /booking/user.
func ListUserBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		page, limit, err := parsePagination(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		filters, err := parseFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := bs.ListForUser(c.Request.Context(), claims.UserID, filters, page, limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(result.Bookings, result.Page, result.Limit, result.Total))
	}
}

// ListAdminBookings handles GET /booking/admin.
func ListAdminBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePagination(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		filters, err := parseFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		result, err := bs.ListForAdmin(c.Request.Context(), filters, page, limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.PaginatedResponse(result.Bookings, result.Page, result.Limit, result.Total))
	}
}

// GetBooking handles GET /booking/:bookingId.
func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := bookingIDParam(c)
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		view, err := bs.GetByBookingID(c.Request.Context(), bookingID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(view, ""))
	}
}

// UpdateBooking handles PUT /booking/:bookingId.
func UpdateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		bookingID := bookingIDParam(c)
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		var req models.UpdateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		view, err := bs.UpdateBooking(c.Request.Context(), bookingID, claims.UserID, &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(view, "Booking updated successfully"))
	}
}

// CancelBooking handles PUT /booking/:bookingId/cancel.
func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		bookingID := bookingIDParam(c)
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("booking ID is required"))
			return
		}

		var req models.CancelBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		view, err := bs.CancelBooking(c.Request.Context(), bookingID, claims.UserID, &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(view, "Booking cancelled successfully"))
	}
}

func bookingIDParam(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("bookingId"))
	return strings.Trim(id, "\"'")
}

func parsePagination(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page parameter")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 0, 0, errors.New("invalid limit parameter")
	}
	return page, limit, nil
}

func parseFilters(c *gin.Context) (models.BookingFilters, error) {
	filters := models.BookingFilters{
		Status:      c.Query("status"),
		BookingType: c.Query("bookingType"),
		Search:      strings.TrimSpace(c.Query("search")),
	}

	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, errors.New("invalid dateFrom parameter")
		}
		filters.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, errors.New("invalid dateTo parameter")
		}
		// Inclusive upper bound
		to = to.Add(24*time.Hour - time.Nanosecond)
		filters.DateTo = &to
	}

	return filters, nil
}

func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrBookingNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
}
