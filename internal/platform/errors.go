// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Windows error constants
const (
	ERROR_ACCESS_DENIED        = syscall.Errno(5)
	ERROR_SHARING_VIOLATION    = syscall.Errno(32)
	ERROR_LOCK_VIOLATION       = syscall.Errno(33)
	ERROR_FILENAME_EXCED_RANGE = syscall.Errno(206)
	ERROR_WRITE_PROTECT        = syscall.Errno(19)
)

// FileError is a file operation failure with an operator suggestion.
type FileError struct {
	Err        error
	Path       string
	Operation  string
	Suggestion string
}

func (e *FileError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s %s: %s. %s", e.Operation, e.Path, e.Err.Error(), e.Suggestion)
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, e.Path, e.Err.Error())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// WrapFileError wraps a file operation error with platform-specific handling
func WrapFileError(err error, filePath string, operation string) error {
	if err == nil {
		return nil
	}
	return &FileError{
		Err:        err,
		Path:       filePath,
		Operation:  operation,
		Suggestion: suggestion(err, filePath),
	}
}

func suggestion(err error, filePath string) string {
	switch {
	case IsPermissionError(err):
		if IsWindows() {
			return "Access denied. Check that you can write to the folder and that no other application has the file open"
		}
		return "Permission denied. Check the folder permissions with 'ls -ld " + filePath + "'"
	case IsLongPathError(err):
		return fmt.Sprintf("The path is %d characters long. Choose a shorter output directory", len(filePath))
	case IsReadOnlyError(err):
		return "The destination is read-only"
	case errors.Is(err, os.ErrNotExist):
		return "Check that the directory exists"
	}
	return ""
}

// IsPermissionError reports access-denied failures on any platform
func IsPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if os.IsPermission(err) {
		return true
	}

	var errno syscall.Errno
	if IsWindows() && errors.As(err, &errno) {
		switch errno {
		case ERROR_ACCESS_DENIED, ERROR_SHARING_VIOLATION, ERROR_LOCK_VIOLATION:
			return true
		}
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "access denied") ||
		strings.Contains(errMsg, "permission denied") ||
		strings.Contains(errMsg, "access is denied")
}

// IsLongPathError checks if the error is related to path length limitations
func IsLongPathError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if IsWindows() && errors.As(err, &errno) && errno == ERROR_FILENAME_EXCED_RANGE {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "filename or extension is too long") ||
		strings.Contains(errMsg, "file name too long") ||
		strings.Contains(errMsg, "name is too long")
}

// IsReadOnlyError checks if the error is related to read-only destinations
func IsReadOnlyError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if IsWindows() && errors.As(err, &errno) && errno == ERROR_WRITE_PROTECT {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "read-only") ||
		strings.Contains(errMsg, "write protected")
}
