// kas-mit/models/transaction.go
package models

import "time"

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Months are the Indonesian month labels stored on INCOME rows.
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Transaction represents one cash movement of the class fund. INCOME rows
// reference a student and a (month, year) pair; EXPENSE rows may carry a
// receipt photo URL. Amounts are whole rupiah.
type Transaction struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"not null"`
	Amount      int64     `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	Description string    `json:"description"`
	StudentID   *string   `json:"studentId" gorm:"index"` // INCOME only
	Month       string    `json:"month"`                  // INCOME only
	Year        int       `json:"year"`                   // INCOME only
	Attachment  string    `json:"attachment"`             // EXPENSE only
	CreatedAt   time.Time `json:"-" gorm:"index"`
	UpdatedAt   time.Time `json:"-"`
}
