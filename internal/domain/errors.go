package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyName indicates the welcome form was submitted without a name
	ErrEmptyName = errors.New("name cannot be empty")
	// ErrUnsupportedTone indicates a tone outside the fixed tone set
	ErrUnsupportedTone = errors.New("unsupported response tone")
	// ErrConfirmationRequired indicates a destructive action was not confirmed
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrDuplicateSubmission indicates the same prompt was sent again within the debounce window
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrCompletionFailed indicates the completion endpoint call failed
	ErrCompletionFailed = errors.New("completion request failed")
	// ErrUnsupportedFile indicates an upload that is not a PDF
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrFileTooLarge indicates an upload above the configured size limit
	ErrFileTooLarge = errors.New("uploaded file is too large")
	// ErrUnreadablePDF indicates the PDF could not be parsed or had no text
	ErrUnreadablePDF = errors.New("unreadable PDF")
	// ErrNoPDF indicates a PDF operation before any PDF was uploaded
	ErrNoPDF = errors.New("no PDF uploaded")
	// ErrAnalysisFailed indicates entity or sentiment analysis failed
	ErrAnalysisFailed = errors.New("analysis failed")
)
