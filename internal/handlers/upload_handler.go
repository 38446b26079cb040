// kas-mit/internal/handlers/upload_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/tutor-digital/KAS-MIT/config"

	"github.com/gin-gonic/gin"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// UploadAttachmentHandler stores one uploaded file and returns its
// public URL. Receipt photos and profile pictures both come through
// here.
func UploadAttachmentHandler(c *gin.Context) {
	url, err := saveUploadedFile(c, "file", config.UploadsDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal upload file: " + err.Error()})
		return
	}
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tidak ada file yang dikirim."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// saveUploadedFile writes the form file to uploadDir under a
// timestamp-prefixed, sanitized name and returns its public URL under
// AttachmentsURLPrefix. A missing file is not an error; the caller gets
// an empty URL.
func saveUploadedFile(c *gin.Context, formKey, uploadDir string) (string, error) {
	file, header, err := c.Request.FormFile(formKey)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("error getting file from form '%s': %v", formKey, err)
	}
	defer file.Close()

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	cleanName := unsafeFileChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), cleanName)
	filePath := filepath.Join(uploadDir, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file on server: %v", err)
	}
	defer out.Close()

	if _, err = io.Copy(out, file); err != nil {
		return "", fmt.Errorf("failed to copy file content: %v", err)
	}

	return config.AttachmentsURLPrefix + "/" + fileName, nil
}
