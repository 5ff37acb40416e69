package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/utsavhq/utsav-api/internal/models"
)

const searchResultLimit = 20

// SearchServices handles GET /services/search?q=.
func SearchServices(catalog models.CatalogRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("query parameter q is required"))
			return
		}

		records, err := catalog.SearchServices(c.Request.Context(), query, searchResultLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to search services"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(records, ""))
	}
}

// GetVenue handles GET /services/venues/:id.
func GetVenue(catalog models.CatalogRepo) gin.HandlerFunc {
	return serviceByID(catalog.FindVenueByID, "venue")
}

// GetVendor handles GET /services/vendors/:id.
func GetVendor(catalog models.CatalogRepo) gin.HandlerFunc {
	return serviceByID(catalog.FindVendorByID, "vendor")
}

func serviceByID(find func(ctx context.Context, id string) (*models.ServiceRecord, error), kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(kind+" ID is required"))
			return
		}

		record, err := find(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("failed to fetch "+kind))
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(kind+" not found"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(record, ""))
	}
}
