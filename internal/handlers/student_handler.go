// kas-mit/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/middleware"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Input structures ---

type StudentInput struct {
	Name         string  `json:"name" binding:"required"`
	Gender       string  `json:"gender" binding:"required,oneof=L P"`
	AbsentNumber int     `json:"absentNumber"`
	Nickname     string  `json:"nickname"`
	Password     string  `json:"password"`
	BirthDate    string  `json:"birthDate"` // YYYY-MM-DD
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	PhotoURL     string  `json:"photoUrl"`
}

// ProfileInput is the self-service subset a parent (or the child) may
// edit on their own record.
type ProfileInput struct {
	Nickname  string  `json:"nickname"`
	Password  string  `json:"password"`
	BirthDate string  `json:"birthDate"`
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	PhotoURL  string  `json:"photoUrl"`
}

type ClassStatsResponse struct {
	TotalStudents int              `json:"totalStudents"`
	BoyCount      int              `json:"boyCount"`
	GirlCount     int              `json:"girlCount"`
	Birthdays     []models.Student `json:"birthdays"`
}

// --- Handlers ---

// ListStudentsHandler returns the roster sorted by absence number.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student
	if err := config.DB.Order("absent_number ASC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat daftar siswa."})
		return
	}
	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, gin.H{"data": students})
}

func GetStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Siswa tidak ditemukan."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat data siswa."})
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudentHandler adds a student. When no absence number is given
// the next free one (max+1) is assigned, matching the roster form.
func CreateStudentHandler(c *gin.Context) {
	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mohon isi nama dan jenis kelamin siswa."})
		return
	}

	student := models.Student{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Gender:       input.Gender,
		AbsentNumber: input.AbsentNumber,
		Nickname:     input.Nickname,
		Password:     input.Password,
		Weight:       input.Weight,
		Height:       input.Height,
		PhotoURL:     input.PhotoURL,
	}
	if student.Password == "" {
		student.Password = config.DefaultStudentPassword
	}
	if bd, err := parseDateField(input.BirthDate); err == nil {
		student.BirthDate = bd
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal lahir tidak valid."})
		return
	}

	if student.AbsentNumber == 0 {
		var maxNumber int
		config.DB.Model(&models.Student{}).Select("COALESCE(MAX(absent_number), 0)").Scan(&maxNumber)
		student.AbsentNumber = maxNumber + 1
	}

	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambah siswa: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudentHandler is the admin's full edit.
func UpdateStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Siswa tidak ditemukan."})
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data siswa tidak valid."})
		return
	}

	student.Name = input.Name
	student.Gender = input.Gender
	if input.AbsentNumber != 0 {
		student.AbsentNumber = input.AbsentNumber
	}
	student.Nickname = input.Nickname
	if input.Password != "" {
		student.Password = input.Password
	}
	student.Weight = input.Weight
	student.Height = input.Height
	student.PhotoURL = input.PhotoURL
	if bd, err := parseDateField(input.BirthDate); err == nil {
		student.BirthDate = bd
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal lahir tidak valid."})
		return
	}

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal update data siswa."})
		return
	}

	middleware.InvalidateStudentCache(student.ID)
	c.JSON(http.StatusOK, student)
}

// UpdateProfileHandler is the self-service edit reachable by parents
// (own child only) and the admin. Only the profile fields change; the
// roster identity (name, gender, absence number) stays admin-owned.
func UpdateProfileHandler(c *gin.Context) {
	studentID := c.Param("id")

	session := middleware.GetSession(c)
	if session != nil && session.Role == middleware.RoleParent {
		if session.Student == nil || session.Student.ID != studentID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Hanya boleh mengubah data anak sendiri."})
			return
		}
	}

	var student models.Student
	if err := config.DB.First(&student, "id = ?", studentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Siswa tidak ditemukan."})
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data profil tidak valid."})
		return
	}

	student.Nickname = input.Nickname
	if input.Password != "" {
		student.Password = input.Password
	}
	student.Weight = input.Weight
	student.Height = input.Height
	if input.PhotoURL != "" {
		student.PhotoURL = input.PhotoURL
	}
	if bd, err := parseDateField(input.BirthDate); err == nil {
		student.BirthDate = bd
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal lahir tidak valid."})
		return
	}

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal update data."})
		return
	}

	middleware.InvalidateStudentCache(student.ID)
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler removes a student and every transaction that
// references them. The cascade is enforced here, not by a database
// constraint, so both deletes run inside one transaction.
func DeleteStudentHandler(c *gin.Context) {
	studentID := c.Param("id")

	var student models.Student
	if err := config.DB.First(&student, "id = ?", studentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Siswa tidak ditemukan."})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("gagal menghapus transaksi siswa: %w", err)
		}
		if err := tx.Delete(&models.Student{}, "id = ?", studentID).Error; err != nil {
			return fmt.Errorf("gagal menghapus siswa: %w", err)
		}
		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	middleware.InvalidateStudentCache(studentID)
	c.JSON(http.StatusOK, gin.H{"message": "Siswa berhasil dihapus."})
}

// ClassStatsHandler serves the class profile screen: headcounts by
// gender and who has a birthday in the current month.
func ClassStatsHandler(c *gin.Context) {
	var students []models.Student
	if err := config.DB.Order("absent_number ASC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat statistik kelas."})
		return
	}

	stats := ClassStatsResponse{
		TotalStudents: len(students),
		Birthdays:     make([]models.Student, 0),
	}

	currentMonth := time.Now().Month()
	for _, s := range students {
		switch s.Gender {
		case models.GenderBoy:
			stats.BoyCount++
		case models.GenderGirl:
			stats.GirlCount++
		}
		if s.BirthDate != nil && s.BirthDate.Month() == currentMonth {
			stats.Birthdays = append(stats.Birthdays, s)
		}
	}

	c.JSON(http.StatusOK, stats)
}

// parseDateField parses an optional YYYY-MM-DD form value. Empty input
// yields a nil date.
func parseDateField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
