package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
)

func (s *Server) ListLineItems(c *gin.Context) {
	ctx := c.Request.Context()
	account := c.Param("account")

	var (
		items []lineitemdomain.LineItem
		err   error
	)
	if c.Query("recurring") == "true" {
		items, err = s.lineItemSvc.ListRecurring(ctx, account)
	} else {
		items, err = s.lineItemSvc.List(ctx, account)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

type addLineItemRequest struct {
	Author      string  `json:"author"`
	Name        string  `json:"name"`
	Recurrence  string  `json:"recurrence"`
	MonthlyFee  float64 `json:"monthly_fee"`
	OneOffFee   float64 `json:"one_off_fee"`
	Description string  `json:"description"`
}

func (s *Server) AddLineItem(c *gin.Context) {
	var req addLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	recurrence, err := lineitemdomain.ParseRecurrence(req.Recurrence)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.lineItemSvc.Add(c.Request.Context(), lineitemdomain.AddRequest{
		AccountNumber: c.Param("account"),
		Author:        strings.TrimSpace(req.Author),
		Name:          strings.TrimSpace(req.Name),
		Recurrence:    recurrence,
		MonthlyFee:    req.MonthlyFee,
		OneOffFee:     req.OneOffFee,
		Description:   req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RemoveLineItem(c *gin.Context) {
	author := strings.TrimSpace(c.Query("author"))
	if err := s.lineItemSvc.Remove(c.Request.Context(), c.Param("account"), c.Param("name"), author); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
