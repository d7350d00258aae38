// Package httpx holds helpers shared by the HTML and JSON handlers.
package httpx

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/alfred/internal/domain"
)

// Status maps a service error to an HTTP status code
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrUnsupportedTone),
		errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, domain.ErrUnsupportedFile),
		errors.Is(err, domain.ErrUnreadablePDF):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoPDF):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCompletionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message is the sentence shown inline on a page for err
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return "Name cannot be empty."
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Please tick the confirmation box to clear the chat."
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return "That message was just sent. Please wait for the reply."
	case errors.Is(err, domain.ErrNoPDF):
		return "Please upload a PDF file first."
	case errors.Is(err, domain.ErrUnsupportedFile):
		return "Only PDF files are supported."
	case errors.Is(err, domain.ErrFileTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, domain.ErrCompletionFailed):
		return "An error occurred while processing your request: " + err.Error()
	case errors.Is(err, domain.ErrUnreadablePDF):
		return "An error occurred while extracting text from the PDF: " + err.Error()
	case errors.Is(err, domain.ErrAnalysisFailed):
		return "An error occurred while analysing the PDF: " + err.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}

// FormFile reads a multipart file field, rejecting request bodies above limit bytes
func FormFile(c *gin.Context, field string, limit int64) (*multipart.FileHeader, error) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	file, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: missing %s upload", domain.ErrInvalidRequest, field)
	}
	return file, nil
}
