package handlers

import (
	"net/http"

	"rex-crm-client/pkg/rex"

	"github.com/gin-gonic/gin"
)

// LocationResponse wraps a parsed point. Lat and Lng are null when the value could not be parsed.
type LocationResponse struct {
	Location rex.Location `json:"location"`
	Valid    bool         `json:"valid"`
}

// PointToLocation godoc
// @Summary Parse a WKT point
// @Tags Location
// @Produce json
// @Param point query string true "Point value" example(POINT(-38.294285 143.175875))
// @Success 200 {object} LocationResponse
// @Router /location [get]
func PointToLocation(c *gin.Context) {
	loc := rex.PointToLocation(c.Query("point"))
	c.JSON(http.StatusOK, LocationResponse{Location: loc, Valid: loc.Valid()})
}
