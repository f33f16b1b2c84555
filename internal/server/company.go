package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
)

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req companydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	req.Name = strings.TrimSpace(req.Name)

	company, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": company})
}

func (s *Server) GetCompany(c *gin.Context) {
	company, err := s.companySvc.Get(c.Request.Context(), c.Param("account"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": company})
}

func (s *Server) ListManualAssets(c *gin.Context) {
	assets, err := s.companySvc.ListManualAssets(c.Request.Context(), c.Param("account"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assets})
}

func (s *Server) AddManualAsset(c *gin.Context) {
	var req companydomain.AddManualAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.AccountNumber = c.Param("account")

	asset, err := s.companySvc.AddManualAsset(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": asset})
}

func (s *Server) RemoveManualAsset(c *gin.Context) {
	if err := s.companySvc.RemoveManualAsset(c.Request.Context(), c.Param("account"), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListManualUsers(c *gin.Context) {
	users, err := s.companySvc.ListManualUsers(c.Request.Context(), c.Param("account"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) AddManualUser(c *gin.Context) {
	var req companydomain.AddManualUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.AccountNumber = c.Param("account")

	user, err := s.companySvc.AddManualUser(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) RemoveManualUser(c *gin.Context) {
	if err := s.companySvc.RemoveManualUser(c.Request.Context(), c.Param("account"), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
