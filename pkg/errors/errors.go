package errors

import (
	"errors"
	"fmt"
)

// Тексты ответа, когда у ошибки нет собственного сообщения
const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
)

var (
	ErrDataNotFound = errors.New("data not found")
	ErrValidation   = errors.New("validation error")
	ErrBusy         = errors.New("inference already running")
	ErrConflict     = errors.New("illegal state transition")
	ErrNoFrame      = errors.New("no frame available")
	ErrUnavailable  = errors.New("service unavailable")
	ErrLinkClosed   = errors.New("plc link closed")
)

// Validationf возвращает ошибку валидации, распознаваемую через errors.Is(err, ErrValidation).
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf возвращает ошибку недопустимого перехода.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// LinkError описывает сбой операции с ПЛК.
type LinkError struct {
	Op     string
	Device string
	Reason string
	Err    error
}

func (e *LinkError) Error() string {
	msg := "plc " + e.Op
	if e.Device != "" {
		msg += " " + e.Device
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LinkError) Unwrap() error { return e.Err }

// CameraError описывает сбой камеры. Никогда не фатальна для процесса.
type CameraError struct {
	Op     string
	Reason string
	Err    error
}

func (e *CameraError) Error() string {
	msg := "camera " + e.Op
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CameraError) Unwrap() error { return e.Err }

// IsLinkError сообщает, что ошибка пришла со стороны ПЛК.
func IsLinkError(err error) bool {
	var le *LinkError
	return errors.As(err, &le)
}

// IsCameraError сообщает, что ошибка пришла со стороны камеры.
func IsCameraError(err error) bool {
	var ce *CameraError
	return errors.As(err, &ce)
}
