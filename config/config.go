// kas-mit/config/config.go
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// JwtKey is the HS256 signing key for session tokens.
var JwtKey []byte

// Credentials of the two roles that have no database row: the class
// treasurer (admin) and the homeroom teacher.
var (
	AdminNickname   = "admin"
	AdminPassword   = "admin@123"
	TeacherNickname = "walikelas"
	TeacherPassword = "guru123"
)

// DefaultStudentPassword is the shared fallback for students whose
// password was never set.
const DefaultStudentPassword = "123456"

// Load reads .env (when present) and initialises settings from the
// environment. Missing optional values fall back to development defaults.
func Load() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "kas-mit-dev-secret"
		slog.Warn("JWT_SECRET not set, using development default")
	}
	JwtKey = []byte(secret)

	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		AdminPassword = v
	}
	if v := os.Getenv("TEACHER_PASSWORD"); v != "" {
		TeacherPassword = v
	}
}

// ListenAddr returns the HTTP bind address.
func ListenAddr() string {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		return v
	}
	return ":8080"
}

// AttachmentsURLPrefix is the public route under which the uploads
// directory is served, regardless of where UPLOADS_DIR points on disk.
const AttachmentsURLPrefix = "/static/uploads/attachments"

// UploadsDir returns the on-disk directory for stored attachments. The
// directory is exposed at AttachmentsURLPrefix, so absolute overrides
// stay servable.
func UploadsDir() string {
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		return v
	}
	return "static/uploads/attachments"
}
