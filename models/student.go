// kas-mit/models/student.go

package models

import "time"

// Student represents one child of the class in the database. Identifiers
// are UUID strings generated by the application, not database sequences.
type Student struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Gender       string     `json:"gender" gorm:"not null"` // "L" or "P"
	AbsentNumber int        `json:"absentNumber" gorm:"not null"`
	Nickname     string     `json:"nickname"` // login handle, case-insensitive
	Password     string     `json:"password"` // plaintext, default "123456"
	BirthDate    *time.Time `json:"birthDate"`
	Weight       float64    `json:"weight"` // kg
	Height       float64    `json:"height"` // cm
	PhotoURL     string     `json:"photoUrl"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

const (
	GenderBoy  = "L"
	GenderGirl = "P"
)
