// kas-mit/internal/handlers/checklist_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
)

type ChecklistRow struct {
	Student models.Student `json:"student"`
	Paid    []bool         `json:"paid"` // one flag per month, Januari first
}

type ChecklistResponse struct {
	Year   int            `json:"year"`
	Months []string       `json:"months"`
	Rows   []ChecklistRow `json:"rows"`
}

// ChecklistHandler renders the dues grid for one year. A cell is paid
// iff at least one INCOME row matches (student, month, year). It is a
// pure existence check, so partial or double payments look the same as
// a fully paid month.
func ChecklistHandler(c *gin.Context) {
	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tahun tidak valid."})
			return
		}
		year = parsed
	}

	query := config.DB.Order("absent_number ASC")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat daftar siswa."})
		return
	}

	var incomes []models.Transaction
	if err := config.DB.Where("type = ? AND year = ?", models.TypeIncome, year).Find(&incomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data iuran."})
		return
	}

	// (studentId, month index) pairs that have at least one payment.
	paid := make(map[string]bool, len(incomes))
	for _, t := range incomes {
		if t.StudentID == nil {
			continue
		}
		idx := getMonthIndex(t.Month)
		if idx < 0 {
			continue
		}
		paid[*t.StudentID+"#"+strconv.Itoa(idx)] = true
	}

	resp := ChecklistResponse{
		Year:   year,
		Months: models.Months,
		Rows:   make([]ChecklistRow, 0, len(students)),
	}
	for _, s := range students {
		row := ChecklistRow{Student: s, Paid: make([]bool, len(models.Months))}
		for i := range models.Months {
			row.Paid[i] = paid[s.ID+"#"+strconv.Itoa(i)]
		}
		resp.Rows = append(resp.Rows, row)
	}

	c.JSON(http.StatusOK, resp)
}
