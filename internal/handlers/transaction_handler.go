// kas-mit/internal/handlers/transaction_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DuesInput struct {
	StudentID      string   `json:"studentId" binding:"required"`
	AmountPerMonth int64    `json:"amountPerMonth" binding:"required"`
	Months         []string `json:"months" binding:"required"`
	Year           int      `json:"year" binding:"required"`
}

type TransactionUpdateInput struct {
	Amount      int64  `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
}

// ListTransactionsHandler returns the full ledger, most recent insert
// first, optionally filtered by type and student.
func ListTransactionsHandler(c *gin.Context) {
	query := config.DB.Order("created_at DESC")

	if t := c.Query("type"); t == models.TypeIncome || t == models.TypeExpense {
		query = query.Where("type = ?", t)
	}
	if studentID := c.Query("studentId"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat daftar transaksi."})
		return
	}
	if transactions == nil {
		transactions = make([]models.Transaction, 0)
	}
	c.JSON(http.StatusOK, gin.H{"data": transactions})
}

// CreateDuesHandler records a monthly-dues payment: one INCOME row per
// selected month, all dated at submission time, inserted in a single
// round trip. Paying March through May at 15000 creates three rows
// summing to 45000.
func CreateDuesHandler(c *gin.Context) {
	var input DuesInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Months) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Harap pilih siswa dan minimal satu bulan pembayaran."})
		return
	}
	if input.AmountPerMonth < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah iuran tidak boleh negatif."})
		return
	}
	for _, m := range input.Months {
		if getMonthIndex(m) < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nama bulan tidak dikenal: " + m})
			return
		}
	}

	var student models.Student
	if err := config.DB.First(&student, "id = ?", input.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Siswa tidak ditemukan."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memeriksa data siswa."})
		return
	}

	now := time.Now()
	transactions := make([]models.Transaction, 0, len(input.Months))
	for _, month := range input.Months {
		studentID := input.StudentID
		transactions = append(transactions, models.Transaction{
			ID:          uuid.NewString(),
			Type:        models.TypeIncome,
			Amount:      input.AmountPerMonth,
			Date:        now,
			Description: fmt.Sprintf("Iuran Kas - %s %d", month, input.Year),
			StudentID:   &studentID,
			Month:       month,
			Year:        input.Year,
		})
	}

	if err := config.DB.Create(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan saat menyimpan data."})
		return
	}

	for _, t := range transactions {
		go GlobalHub.NotifyTransaction(t)
	}

	c.JSON(http.StatusCreated, gin.H{"data": transactions})
}

// CreateExpenseHandler records a spending entry. The request is a
// multipart form so a receipt photo can ride along; the file lands in
// the attachment store and its public URL is kept on the row.
func CreateExpenseHandler(c *gin.Context) {
	description := c.PostForm("description")
	amountStr := c.PostForm("amount")
	dateStr := c.PostForm("date")
	if description == "" || amountStr == "" || dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deskripsi, jumlah dan tanggal wajib diisi."})
		return
	}

	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah pengeluaran tidak valid."})
		return
	}

	date, err := parseTransactionDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal tidak valid."})
		return
	}

	attachmentURL, err := saveUploadedFile(c, "attachment", config.UploadsDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal upload foto: " + err.Error()})
		return
	}

	transaction := models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TypeExpense,
		Amount:      amount,
		Date:        date,
		Description: description,
		Attachment:  attachmentURL,
	}

	if err := config.DB.Create(&transaction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan data pengeluaran."})
		return
	}

	go GlobalHub.NotifyTransaction(transaction)

	c.JSON(http.StatusCreated, transaction)
}

// UpdateTransactionHandler applies the edit form, which only touches
// amount, date and description. Rows keep their insertion position, so
// backdating an edit can make display order drift from strict recency.
func UpdateTransactionHandler(c *gin.Context) {
	var transaction models.Transaction
	if err := config.DB.First(&transaction, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaksi tidak ditemukan."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat transaksi."})
		return
	}

	var input TransactionUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data transaksi tidak valid."})
		return
	}
	if input.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah tidak boleh negatif."})
		return
	}

	date, err := parseTransactionDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal tidak valid."})
		return
	}

	transaction.Amount = input.Amount
	transaction.Date = date
	transaction.Description = input.Description

	if err := config.DB.Save(&transaction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengupdate data."})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func DeleteTransactionHandler(c *gin.Context) {
	result := config.DB.Delete(&models.Transaction{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus data."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaksi tidak ditemukan."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaksi berhasil dihapus."})
}

// parseTransactionDate accepts the date input of the forms (YYYY-MM-DD)
// as well as full RFC3339 timestamps.
func parseTransactionDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
