package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultAuditLimit = 100

func (s *Server) ListAuditRecords(c *gin.Context) {
	limit := defaultAuditLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = n
	}

	records, err := s.auditSvc.List(c.Request.Context(), c.Param("account"), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}
