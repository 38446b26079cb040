package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/middleware"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	Token   string                 `json:"token"`
	Session middleware.SessionData `json:"session"`
}

func TestLoginPrecedence(t *testing.T) {
	r := setupTest(t)

	// A student who picked "admin" as nickname must never shadow the
	// treasurer account.
	impostor := createStudent(t, "Budi", models.GenderBoy, "admin", "admin@123", 1)

	w := doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "Admin", "password": config.AdminPassword})
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, middleware.RoleAdmin, resp.Session.Role)
	assert.Nil(t, resp.Session.Student)

	// Teacher pair.
	w = doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "walikelas", "password": config.TeacherPassword})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, middleware.RoleTeacher, resp.Session.Role)

	// With any other password the lookup falls through to the student
	// row, so the impostor gets the student wrong-password error.
	w = doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "ADMIN ", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errResp map[string]string
	decodeBody(t, w, &errResp)
	assert.Equal(t, "Password salah. Default: 123456", errResp["error"])
	_ = impostor
}

func TestLoginStudent(t *testing.T) {
	r := setupTest(t)

	createStudent(t, "Siti", models.GenderGirl, "Siti", "rahasia", 2)
	noPassword := createStudent(t, "Andi", models.GenderBoy, "andi", "", 3)

	// Nickname matching is case-insensitive and trims whitespace.
	w := doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "  sItI ", "password": "rahasia"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, middleware.RoleParent, resp.Session.Role)
	require.NotNil(t, resp.Session.Student)
	assert.Equal(t, "Siti", resp.Session.Student.Name)

	// A student without a stored password uses the shared default.
	w = doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "Andi", "password": config.DefaultStudentPassword})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.NotNil(t, resp.Session.Student)
	assert.Equal(t, noPassword.ID, resp.Session.Student.ID)
}

func TestLoginErrorsAreDistinct(t *testing.T) {
	r := setupTest(t)
	createStudent(t, "Siti", models.GenderGirl, "siti", "rahasia", 1)

	w := doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "nobody", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var errResp map[string]string
	decodeBody(t, w, &errResp)
	assert.Equal(t, "Nama Panggilan tidak ditemukan.", errResp["error"])

	w = doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "siti", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	decodeBody(t, w, &errResp)
	assert.Equal(t, "Password salah. Default: 123456", errResp["error"])
}

func TestSessionRestore(t *testing.T) {
	r := setupTest(t)
	student := createStudent(t, "Siti", models.GenderGirl, "siti", "rahasia", 1)

	w := doJSON(t, r, "POST", "/login", "", gin.H{"nickname": "siti", "password": "rahasia"})
	require.Equal(t, http.StatusOK, w.Code)

	// Reuse the issued cookie on the next request, like a page reload.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var session middleware.SessionData
	decodeBody(t, w2, &session)
	assert.Equal(t, middleware.RoleParent, session.Role)
	require.NotNil(t, session.Student)
	assert.Equal(t, student.ID, session.Student.ID)
}

func TestSessionWithMissingStudentIsRejected(t *testing.T) {
	r := setupTest(t)

	// Token references a student that no longer exists.
	token := authToken(t, middleware.RoleParent, "gone")
	w := doJSON(t, r, "GET", "/api/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setupTest(t)

	w := doJSON(t, r, "GET", "/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
