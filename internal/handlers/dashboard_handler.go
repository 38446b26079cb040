// kas-mit/internal/handlers/dashboard_handler.go
package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
)

type DashboardStats struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

type ChartPoint struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type PaymentStatus struct {
	CurrentMonth  string `json:"currentMonth"`
	PaidCount     int    `json:"paidCount"`
	TotalStudents int    `json:"totalStudents"`
	Percentage    int    `json:"percentage"`
}

type DashboardResponse struct {
	Stats         DashboardStats       `json:"stats"`
	Chart         []ChartPoint         `json:"chart"`
	PaymentStatus PaymentStatus        `json:"paymentStatus"`
	Recent        []models.Transaction `json:"recent"`
}

// DashboardHandler assembles the home screen in one round trip over the
// ledger: running totals, the six-bucket income chart, this month's
// payment progress and the five most recent entries. All of it is
// recomputed per request; the ledger is classroom sized.
func DashboardHandler(c *gin.Context) {
	var transactions []models.Transaction
	if err := config.DB.Order("created_at DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data dashboard."})
		return
	}

	var studentCount int64
	if err := config.DB.Model(&models.Student{}).Count(&studentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung siswa."})
		return
	}

	resp := DashboardResponse{
		Chart:  buildIncomeChart(transactions),
		Recent: make([]models.Transaction, 0, 5),
	}

	now := time.Now()
	currentMonth := models.Months[now.Month()-1]
	currentYear := now.Year()

	for _, t := range transactions {
		switch t.Type {
		case models.TypeIncome:
			resp.Stats.Income += t.Amount
			if t.Month == currentMonth && t.Year == currentYear {
				resp.PaymentStatus.PaidCount++
			}
		case models.TypeExpense:
			resp.Stats.Expense += t.Amount
		}
	}
	resp.Stats.Balance = resp.Stats.Income - resp.Stats.Expense

	resp.PaymentStatus.CurrentMonth = currentMonth
	resp.PaymentStatus.TotalStudents = int(studentCount)
	if studentCount > 0 {
		resp.PaymentStatus.Percentage = int(math.Round(float64(resp.PaymentStatus.PaidCount) / float64(studentCount) * 100))
	}

	for i := 0; i < len(transactions) && i < 5; i++ {
		resp.Recent = append(resp.Recent, transactions[i])
	}

	c.JSON(http.StatusOK, resp)
}

// buildIncomeChart sums income per month for the fixed second-half
// window (Juli through Desember), matching the home screen chart.
func buildIncomeChart(transactions []models.Transaction) []ChartPoint {
	lastSix := models.Months[len(models.Months)-6:]
	chart := make([]ChartPoint, 0, len(lastSix))
	for _, m := range lastSix {
		var amount int64
		for _, t := range transactions {
			if t.Type == models.TypeIncome && t.Month == m {
				amount += t.Amount
			}
		}
		chart = append(chart, ChartPoint{Name: m[:3], Amount: amount})
	}
	return chart
}
