package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	alignmentdomain "github.com/ruapotato/hivematrix-ledger/internal/alignment/domain"
)

type alignmentRequest struct {
	Author string                        `json:"author"`
	Terms  alignmentdomain.ContractTerms `json:"terms"`
}

func (s *Server) bindAlignmentRequest(c *gin.Context) (alignmentRequest, bool) {
	var req alignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return req, false
	}
	req.Author = strings.TrimSpace(req.Author)
	return req, true
}

func (s *Server) CompareContract(c *gin.Context) {
	req, ok := s.bindAlignmentRequest(c)
	if !ok {
		return
	}
	entries, err := s.alignmentSvc.Compare(c.Request.Context(), c.Param("account"), req.Terms)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) PreviewAlignment(c *gin.Context) {
	req, ok := s.bindAlignmentRequest(c)
	if !ok {
		return
	}
	result, err := s.alignmentSvc.Align(c.Request.Context(), c.Param("account"), req.Author, req.Terms, true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ApplyAlignment(c *gin.Context) {
	req, ok := s.bindAlignmentRequest(c)
	if !ok {
		return
	}
	result, err := s.alignmentSvc.Align(c.Request.Context(), c.Param("account"), req.Author, req.Terms, false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) VerifyAlignment(c *gin.Context) {
	req, ok := s.bindAlignmentRequest(c)
	if !ok {
		return
	}
	entries, err := s.alignmentSvc.Verify(c.Request.Context(), c.Param("account"), req.Terms)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	aligned := true
	for _, entry := range entries {
		if entry.Action != alignmentdomain.ActionNoChange {
			aligned = false
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"aligned": aligned, "entries": entries}})
}
