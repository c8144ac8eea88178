package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors: the request never reached the detection pipeline.
	ErrUndecodableImage  = errors.New("image bytes could not be decoded")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyInput        = errors.New("empty image payload")

	// Agent errors: recovered locally, degrade one agent to FAILED.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInferenceFailed  = errors.New("inference failed")
	ErrAgentTimeout     = errors.New("agent timed out")

	// Forensic errors: recovered locally, module contributes zero findings.
	ErrForensicFailed = errors.New("forensic module failed")

	// Bundle errors
	ErrBundleFrozen = errors.New("signal bundle is frozen")
)

// NewInputError wraps a decode failure with the offending format context.
func NewInputError(format string, err error) error {
	if format == "" {
		return fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	return fmt.Errorf("%w: format %s: %v", ErrUndecodableImage, format, err)
}

// IsInputError reports whether err means the request carried no analyzable image.
// Input errors surface to the transport layer; everything else degrades in-pipeline.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUndecodableImage) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyInput)
}
