// kas-mit/internal/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ReportSummary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

type ExpenseStats struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
	Max   int64 `json:"max"`
}

type ReportResponse struct {
	Summary      ReportSummary        `json:"summary"`
	ExpenseStats ExpenseStats         `json:"expenseStats"`
	Transactions []models.Transaction `json:"transactions"`
}

// ReportSummaryHandler computes the report screen: filterable totals
// plus the expense breakdown (sum, count, largest single spend). The
// expense stats always cover the whole ledger, independent of the
// filters, mirroring the two report tabs.
func ReportSummaryHandler(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if studentID := c.Query("studentId"); studentID != "" && studentID != "ALL" {
		query = query.Where("student_id = ?", studentID)
	}
	if t := c.Query("type"); t == models.TypeIncome || t == models.TypeExpense {
		query = query.Where("type = ?", t)
	}

	var filtered []models.Transaction
	if err := query.Find(&filtered).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat laporan."})
		return
	}
	if filtered == nil {
		filtered = make([]models.Transaction, 0)
	}

	resp := ReportResponse{Transactions: filtered}
	for _, t := range filtered {
		switch t.Type {
		case models.TypeIncome:
			resp.Summary.Income += t.Amount
		case models.TypeExpense:
			resp.Summary.Expense += t.Amount
		}
	}
	resp.Summary.Balance = resp.Summary.Income - resp.Summary.Expense

	var expenses []models.Transaction
	if err := config.DB.Where("type = ?", models.TypeExpense).Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data pengeluaran."})
		return
	}
	for _, t := range expenses {
		resp.ExpenseStats.Total += t.Amount
		resp.ExpenseStats.Count++
		if t.Amount > resp.ExpenseStats.Max {
			resp.ExpenseStats.Max = t.Amount
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ExportTransactionsHandler streams the ledger as an XLSX workbook for
// the treasurer's end-of-term report.
func ExportTransactionsHandler(c *gin.Context) {
	var transactions []models.Transaction
	if err := config.DB.Order("created_at DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	// Resolve student names for the income rows.
	var students []models.Student
	if err := config.DB.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students for export"})
		return
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	f := excelize.NewFile()
	sheetName := "Laporan Kas"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Tanggal", "Jenis", "Deskripsi", "Siswa", "Bulan", "Tahun", "Jumlah (Rp)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Date.Format("02.01.2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Description)
		if t.StudentID != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), names[*t.StudentID])
		}
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Month)
		if t.Year != 0 {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Year)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), t.Amount)
	}

	fileName := fmt.Sprintf("laporan_kas_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
