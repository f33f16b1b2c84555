package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
)

// periodFromQuery reads year/month query params, defaulting to the current
// period when both are absent.
func (s *Server) periodFromQuery(c *gin.Context) (period.Period, error) {
	yearStr := strings.TrimSpace(c.Query("year"))
	monthStr := strings.TrimSpace(c.Query("month"))
	if yearStr == "" && monthStr == "" {
		return period.Current(s.clock.Now()), nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return period.Period{}, period.ErrInvalidPeriod
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return period.Period{}, period.ErrInvalidPeriod
	}
	return period.New(year, month)
}

func (s *Server) GetQuantities(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	quantities, err := s.quantitySvc.Aggregate(c.Request.Context(), c.Param("account"), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quantities})
}
