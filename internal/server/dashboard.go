package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	receiptdomain "github.com/ruapotato/hivematrix-ledger/internal/receipt/domain"
)

type dashboardRow struct {
	AccountNumber string  `json:"account_number"`
	CompanyName   string  `json:"company_name"`
	PlanName      string  `json:"plan_name"`
	UnitTotal     float64 `json:"unit_total"`
	ChargeTotal   float64 `json:"charge_total"`
	GrandTotal    float64 `json:"grand_total"`
}

// GetBillingDashboard totals every company's receipt for one period. Read-only
// composition over the receipt calculator; a company whose inventory cannot be
// read fails the whole dashboard rather than reporting a silent zero.
func (s *Server) GetBillingDashboard(c *gin.Context) {
	p, err := s.periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows := make([]dashboardRow, 0, len(companies))
	var total float64
	for _, company := range companies {
		receipt, err := s.receiptSvc.Compute(c.Request.Context(), company.AccountNumber, p)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		rows = append(rows, dashboardRow{
			AccountNumber: receipt.AccountNumber,
			CompanyName:   receipt.CompanyName,
			PlanName:      receipt.PlanName,
			UnitTotal:     receipt.UnitTotal,
			ChargeTotal:   receipt.ChargeTotal,
			GrandTotal:    receipt.GrandTotal,
		})
		total += receipt.GrandTotal
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"period":    p,
		"companies": rows,
		"total":     receiptdomain.RoundCents(total),
	}})
}
