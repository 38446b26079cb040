package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Session roles.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleParent  = "PARENT"
)

// SessionData is the resolved session placed on the request context. For
// parent sessions Student is the logged-in child; for admin and teacher
// sessions it is nil.
type SessionData struct {
	Role    string          `json:"role"`
	Student *models.Student `json:"student,omitempty"`
}

// AuthMiddleware validates the session token from the auth_token cookie
// (or an Authorization: Bearer header) and resolves the session. Parent
// sessions look up their student through the Redis cache first; a student
// that no longer exists invalidates the session so the client falls back
// to the login screen.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})

		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}

		role, _ := claims["role"].(string)
		if role != RoleAdmin && role != RoleTeacher && role != RoleParent {
			handleAuthError(c, "Unknown role in token")
			return
		}

		session := SessionData{Role: role}

		if role == RoleParent {
			studentID, _ := claims["student_id"].(string)
			student, err := resolveStudent(studentID)
			if err != nil {
				c.SetCookie("auth_token", "", -1, "/", "", false, true)
				handleAuthError(c, "Student from token not found")
				return
			}
			session.Student = student
		}

		setContextAndProceed(c, &session)
	}
}

// resolveStudent loads the session's student, preferring the cache.
func resolveStudent(studentID string) (*models.Student, error) {
	if studentID == "" {
		return nil, errors.New("empty student id")
	}

	cacheKey := fmt.Sprintf("student:%s:session", studentID)
	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var student models.Student
			if json.Unmarshal([]byte(cached), &student) == nil {
				return &student, nil
			}
			slog.Warn("Failed to unmarshal cached student", "student_id", studentID)
		} else if err != redis.Nil {
			slog.Error("Redis GET command failed", "error", err, "student_id", studentID)
		}
	}

	var student models.Student
	if err := config.DB.First(&student, "id = ?", studentID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("Failed to load session student", "error", err, "student_id", studentID)
		}
		return nil, err
	}

	if config.RDB != nil {
		jsonData, err := json.Marshal(student)
		if err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
				slog.Error("Failed to cache session student", "error", err, "student_id", studentID)
			}
		}
	}

	return &student, nil
}

// InvalidateStudentCache drops the cached session entry after a student
// row changes or is removed.
func InvalidateStudentCache(studentID string) {
	if config.RDB == nil || studentID == "" {
		return
	}
	cacheKey := fmt.Sprintf("student:%s:session", studentID)
	if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
		slog.Warn("Failed to invalidate cache for student", "error", err, "student_id", studentID)
	}
}

func setContextAndProceed(c *gin.Context, session *SessionData) {
	c.Set("session", session)
	c.Set("role", session.Role)
	if session.Student != nil {
		c.Set("student_id", session.Student.ID)
	}
	c.Next()
}

// RoleMiddleware allows only the listed roles through.
func RoleMiddleware(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Akses ditolak untuk peran ini."})
		c.Abort()
	}
}

// GetSession returns the resolved session from the request context.
func GetSession(c *gin.Context) *SessionData {
	if v, exists := c.Get("session"); exists {
		if s, ok := v.(*SessionData); ok {
			return s
		}
	}
	return nil
}

func handleAuthError(c *gin.Context, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	}
	c.Abort()
}
