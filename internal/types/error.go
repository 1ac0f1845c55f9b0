package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Error kinds used to classify failures at the handler boundary.
const (
	KindAuthRequired          = "authentication-required"
	KindUnauthorized          = "unauthorized"
	KindNetwork               = "network"
	KindTimeout               = "timeout"
	KindInvalidResponse       = "invalid-server-response"
	KindUnsupportedFormat     = "unsupported-format"
	KindFileTooLarge          = "file-too-large"
	KindStorageMisconfigured  = "storage-misconfigured"
	KindPartialSuccessNoMedia = "partial-success-missing-media"
	KindGeneric               = "generic"
)

// Sentinel errors for the upload pipeline and auth paths.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file too large")
	ErrInvalidServerResponse  = errors.New("invalid or empty server response")
	ErrStorageMisconfigured   = errors.New("storage is not configured")
)

// Classify maps an error to one of the taxonomy kinds. Message matching is
// a last resort for errors that arrive as bare strings from SDK calls.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return KindAuthRequired
	case errors.Is(err, ErrUnsupportedFileType):
		return KindUnsupportedFormat
	case errors.Is(err, ErrFileTooLarge):
		return KindFileTooLarge
	case errors.Is(err, ErrInvalidServerResponse):
		return KindInvalidResponse
	case errors.Is(err, ErrStorageMisconfigured):
		return KindStorageMisconfigured
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return KindUnauthorized
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return KindTimeout
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network"):
		return KindNetwork
	}
	return KindGeneric
}
