// kas-mit/internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/middleware"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type LoginInput struct {
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler checks the submitted handle/password pair in fixed
// precedence: the admin pair, the teacher pair, then a case-insensitive
// match against student nicknames. First match wins, so a student who
// names themselves "admin" can never shadow the treasurer account.
// Unknown handle and wrong password produce distinct error messages.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nama panggilan dan password wajib diisi."})
		return
	}

	lowerNick := strings.ToLower(strings.TrimSpace(input.Nickname))

	if lowerNick == config.AdminNickname && input.Password == config.AdminPassword {
		issueSession(c, middleware.RoleAdmin, nil)
		return
	}

	if lowerNick == config.TeacherNickname && input.Password == config.TeacherPassword {
		issueSession(c, middleware.RoleTeacher, nil)
		return
	}

	var student models.Student
	err := config.DB.Where("LOWER(nickname) = ? AND nickname <> ''", lowerNick).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Nama Panggilan tidak ditemukan."})
			return
		}
		slog.Error("Login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memeriksa data login."})
		return
	}

	expected := student.Password
	if expected == "" {
		expected = config.DefaultStudentPassword
	}
	if input.Password != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Password salah. Default: 123456"})
		return
	}

	issueSession(c, middleware.RoleParent, &student)
}

// issueSession signs the 24h token, sets the cookie and returns the
// session payload the client uses to pick its start screen.
func issueSession(c *gin.Context, role string, student *models.Student) {
	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if student != nil {
		claims["student_id"] = student.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat sesi."})
		return
	}

	c.SetCookie("auth_token", tokenStr, int(24*time.Hour/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":   tokenStr,
		"session": middleware.SessionData{Role: role, Student: student},
	})
}

// LogoutHandler clears the session cookie.
func LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Berhasil keluar."})
}

// SessionHandler restores the session after a page reload. The cookie
// plays the role the browser's local storage played before: reopening
// the app without an explicit logout lands on the same role.
func SessionHandler(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesi tidak ditemukan."})
		return
	}
	c.JSON(http.StatusOK, session)
}
