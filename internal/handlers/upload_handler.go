package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockmate/interview/internal/extractor"
	"mockmate/interview/internal/models"
	"mockmate/interview/internal/utils"
)

// maxUploadSize caps resume uploads at 5 MB.
const maxUploadSize = 5 << 20

type UploadHandler struct {
	extractor *extractor.Service
	uploadDir string
	logger    *zap.Logger
}

func NewUploadHandler(ex *extractor.Service, uploadDir string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		extractor: ex,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

type uploadResponse struct {
	Filename      string `json:"filename"`
	OriginalName  string `json:"originalName"`
	Size          int64  `json:"size"`
	URL           string `json:"url"`
	TextExtracted bool   `json:"textExtracted"`
	ResumeText    string `json:"resumeText,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// ResumeHandler stores an uploaded resume and extracts its text.
// Extraction failure is non-fatal: the file is kept and the client is
// warned that text-dependent features will be limited.
func (h *UploadHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_upload",
			Message: "Please upload a resume file",
		})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_file",
			Message: "Please upload a resume file",
		})
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("failed to create upload directory", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to store file",
		})
		return
	}

	filename := uuid.New().String() + filepath.Ext(header.Filename)
	path := filepath.Join(h.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("failed to create upload file", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to store file",
		})
		return
	}
	size, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(path)
		h.logger.Error("failed to write upload file", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to store file",
		})
		return
	}

	resp := uploadResponse{
		Filename:     filename,
		OriginalName: header.Filename,
		Size:         size,
		URL:          "/uploads/" + filename,
	}

	text, err := h.extractor.ExtractText(path)
	if err != nil {
		h.logger.Warn("resume text extraction failed",
			zap.String("filename", header.Filename),
			zap.Error(err))
		resp.Warning = "Could not extract text from file. Some features may be limited."
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			resp.Warning = "Unsupported file format for text extraction. Some features may be limited."
		}
		utils.JSON(w, http.StatusOK, resp)
		return
	}

	resp.TextExtracted = true
	resp.ResumeText = text
	utils.JSON(w, http.StatusOK, resp)
}
