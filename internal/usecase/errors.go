package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// 機械可読なエラーコード。クライアントはcodeで分岐する
const (
	CodeValidation            = "validation_error"
	CodeNotFound              = "not_found"
	CodeForbidden             = "forbidden"
	CodeUnauthorized          = "unauthorized"
	CodeConflict              = "conflict"
	CodeProductUnavailable    = "product_unavailable"
	CodeInsufficientInventory = "insufficient_inventory"
	CodeInvalidTransition     = "invalid_transition"
	CodeDataInconsistency     = "data_inconsistency"
	CodeInternal              = "internal_error"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
	}
}

// ドメイン都合のエラー（コード明示）
func NewDomainError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// errがcode付きHTTPErrorで、そのcodeが一致するか
func HasCode(err error, code string) bool {
	he, ok := AsHTTPError(err)
	return ok && he.Code == code
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeInternal
	}
}
