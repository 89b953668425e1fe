package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echochat/internal/uploads"
)

type UploadHandler struct {
	store *uploads.Store
}

func NewUploadHandler(store *uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload принимает multipart-файл и возвращает URL для вставки в
// сообщение типа image или audio
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
		return
	}

	fileURL, err := h.store.Save(data, filepath.Ext(fileHeader.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fileUrl": fileURL})
}
