package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/handlers"
	"github.com/tutor-digital/KAS-MIT/internal/routes"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.JwtKey = []byte("test-secret")
	go handlers.GlobalHub.Run()
	os.Exit(m.Run())
}

// setupTest points the global DB at a fresh in-memory database and
// builds the full router.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Student{}, &models.Transaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	config.DB = db
	config.RDB = nil

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// authToken signs a session token the way the login handler does.
func authToken(t *testing.T, role, studentID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if studentID != "" {
		claims["student_id"] = studentID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JwtKey)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

// doJSON performs one request against the router. A non-empty token is
// sent as a Bearer header; body (if any) is marshalled to JSON.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// createStudent inserts a roster row directly.
func createStudent(t *testing.T, name, gender, nickname, password string, absentNumber int) models.Student {
	t.Helper()

	student := models.Student{
		ID:           uuid.NewString(),
		Name:         name,
		Gender:       gender,
		AbsentNumber: absentNumber,
		Nickname:     nickname,
		Password:     password,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		t.Fatalf("failed to create test student: %v", err)
	}
	return student
}

// createIncome inserts one dues row directly.
func createIncome(t *testing.T, studentID string, amount int64, month string, year int) models.Transaction {
	t.Helper()

	tr := models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TypeIncome,
		Amount:      amount,
		Date:        time.Now(),
		Description: "Iuran Kas - " + month,
		StudentID:   &studentID,
		Month:       month,
		Year:        year,
	}
	if err := config.DB.Create(&tr).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return tr
}

// createExpense inserts one spending row directly.
func createExpense(t *testing.T, amount int64, description string) models.Transaction {
	t.Helper()

	tr := models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TypeExpense,
		Amount:      amount,
		Date:        time.Now(),
		Description: description,
	}
	if err := config.DB.Create(&tr).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return tr
}
