package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
)

func (s *Server) GetEffectiveRates(c *gin.Context) {
	effective, err := s.ratesSvc.ResolveAll(c.Request.Context(), c.Param("account"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": effective})
}

func (s *Server) GetEffectiveRate(c *gin.Context) {
	kind, err := plandomain.ParseUnitKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rate, err := s.ratesSvc.Resolve(c.Request.Context(), c.Param("account"), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"kind": kind, "rate": rate}})
}

func (s *Server) GetOverride(c *gin.Context) {
	override, err := s.ratesSvc.GetOverride(c.Request.Context(), c.Param("account"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": override})
}

type setOverrideRequest struct {
	Author string `json:"author"`
	// Changes maps override field names to values. An explicit null reverts
	// that field to the plan default; an absent field is left unchanged.
	Changes         map[string]*float64 `json:"changes"`
	ExpectedVersion *int64              `json:"expected_version"`
}

func (s *Server) SetOverride(c *gin.Context) {
	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	changes := make(map[ratesdomain.OverrideField]*float64, len(req.Changes))
	for name, value := range req.Changes {
		field, err := ratesdomain.ParseOverrideField(name)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		changes[field] = value
	}

	override, err := s.ratesSvc.SetOverride(c.Request.Context(), ratesdomain.SetOverrideRequest{
		AccountNumber:   c.Param("account"),
		Author:          strings.TrimSpace(req.Author),
		Changes:         changes,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": override})
}

func (s *Server) ClearOverrides(c *gin.Context) {
	author := strings.TrimSpace(c.Query("author"))
	if err := s.ratesSvc.ClearOverrides(c.Request.Context(), c.Param("account"), author); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
