package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeUserHasTeam        = "USER_HAS_TEAM"
	CodeUserManagesTeam    = "USER_MANAGES_TEAM"
	CodeAbsenceTypeInUse   = "ABSENCE_TYPE_IN_USE"
	CodeInvalidCursor      = "INVALID_CURSOR"
	CodeValidationRequired = "VALIDATION_REQUIRED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons; matching is done on Code only.
var (
	ErrNotFound           = &DomainError{Code: CodeNotFound}
	ErrDuplicateEmail     = &DomainError{Code: CodeDuplicateEmail}
	ErrUserHasTeam        = &DomainError{Code: CodeUserHasTeam}
	ErrUserManagesTeam    = &DomainError{Code: CodeUserManagesTeam}
	ErrAbsenceTypeInUse   = &DomainError{Code: CodeAbsenceTypeInUse}
	ErrInvalidCursor      = &DomainError{Code: CodeInvalidCursor}
	ErrValidationRequired = &DomainError{Code: CodeValidationRequired}
	ErrValidationFailed   = &DomainError{Code: CodeValidationFailed}
	ErrUnavailable        = &DomainError{Code: CodeUnavailable}
	ErrInternal           = &DomainError{Code: CodeInternal}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewRequiredError reports a missing required argument.
func NewRequiredError(field string) error {
	return NewDomainError(CodeValidationRequired,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
		map[string]any{"field": field})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewDuplicateEmail(email string) error {
	return NewDomainError(CodeDuplicateEmail,
		fmt.Sprintf("user with email %s already exists", email),
		http.StatusConflict,
		map[string]any{"email": email})
}

func NewUserHasTeam(userID, teamID, teamName string) error {
	return NewDomainError(CodeUserHasTeam,
		fmt.Sprintf("user is part of the team %s", teamName),
		http.StatusConflict,
		map[string]any{"user_id": userID, "team_id": teamID, "team_name": teamName})
}

func NewUserManagesTeam(userID, teamID, teamName string) error {
	return NewDomainError(CodeUserManagesTeam,
		fmt.Sprintf("user is the manager of the team %s", teamName),
		http.StatusConflict,
		map[string]any{"user_id": userID, "team_id": teamID, "team_name": teamName})
}

func NewAbsenceTypeInUse(absenceTypeID, name string) error {
	return NewDomainError(CodeAbsenceTypeInUse,
		fmt.Sprintf("absence type %s is referenced by absences", name),
		http.StatusConflict,
		map[string]any{"absence_type_id": absenceTypeID, "name": name})
}

func NewInvalidCursor(cursor string, err error) error {
	return &DomainError{
		Code:       CodeInvalidCursor,
		Message:    "invalid cursor",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"after": cursor},
		Err:        err,
	}
}

// NewUnavailable reports a feature whose backing service is not configured.
func NewUnavailable(message string) error {
	return NewDomainError(CodeUnavailable, message, http.StatusServiceUnavailable, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.HTTPStatus == 0 {
			withStatus := *domainErr
			withStatus.HTTPStatus = http.StatusInternalServerError
			return &withStatus
		}
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
