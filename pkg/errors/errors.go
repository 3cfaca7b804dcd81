package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfig represents a malformed or incomplete site configuration
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeNavigation represents a failure to reach or load a site
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeContentTimeout represents a timeout waiting for page content
	ErrorTypeContentTimeout ErrorType = "content_timeout"
	// ErrorTypeExtraction represents a per-element extraction failure
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypePersistence represents a storage read/write failure
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypePublisher represents a stream publishing failure
	ErrorTypePublisher ErrorType = "publisher"
)

// ScrapeError represents a scraper-specific error with its scope attached
type ScrapeError struct {
	Type    ErrorType
	Site    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Site, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Site, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsBatchFatal returns true if the error must abort the whole batch.
// Only persistence failures are batch-fatal; everything else is scoped
// to one file, one site, or one element.
func (e *ScrapeError) IsBatchFatal() bool {
	return e.Type == ErrorTypePersistence
}

// New creates a new ScrapeError
func New(errType ErrorType, site, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Site:    site,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfig creates a new configuration error
func NewConfig(site, message string) *ScrapeError {
	return New(ErrorTypeConfig, site, message, nil)
}

// NewNavigation creates a new navigation error
func NewNavigation(site, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, site, message, err)
}

// NewContentTimeout creates a new content timeout error
func NewContentTimeout(site, message string, err error) *ScrapeError {
	return New(ErrorTypeContentTimeout, site, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(site, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, site, message, err)
}

// NewPersistence creates a new persistence error
func NewPersistence(message string, err error) *ScrapeError {
	return New(ErrorTypePersistence, "", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(site, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, site, message, err)
}

// TypeOf returns the ErrorType of err if it is a ScrapeError
func TypeOf(err error) (ErrorType, bool) {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type, true
	}
	return "", false
}
