// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Lead monitoring errors
	ErrTopicsRequired        = errors.New("at least one topic is required")
	ErrInvalidFilterCriteria = errors.New("invalid filter criteria")
	ErrSearchProviderFailed  = errors.New("post search provider failed")
	ErrMonitorAlreadyActive  = errors.New("lead monitor is already active")
	ErrMonitorNotActive      = errors.New("lead monitor is not active")

	// Customer import errors
	ErrFileRequired        = errors.New("a CSV file is required")
	ErrCSVMalformed        = errors.New("CSV file is malformed")
	ErrCSVHeaderMissing    = errors.New("CSV header row is missing required columns")
	ErrCSVEmpty            = errors.New("CSV file contains no data rows")
	ErrCustomerRowInvalid  = errors.New("customer row is invalid")
	ErrCustomerSaveFailed  = errors.New("customer row could not be saved")
	ErrNoCustomersInRegion = errors.New("no customers found in region")

	// Provider errors
	ErrLLMProviderFailed   = errors.New("language model provider failed")
	ErrEmailProviderFailed = errors.New("email provider failed")
	ErrEmptyLLMReply       = errors.New("language model returned an empty reply")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsTopicsRequired(err error) bool {
	return errors.Is(err, ErrTopicsRequired)
}

func IsSearchProviderFailed(err error) bool {
	return errors.Is(err, ErrSearchProviderFailed)
}

func IsMonitorAlreadyActive(err error) bool {
	return errors.Is(err, ErrMonitorAlreadyActive)
}

func IsMonitorNotActive(err error) bool {
	return errors.Is(err, ErrMonitorNotActive)
}

func IsFileRequired(err error) bool {
	return errors.Is(err, ErrFileRequired)
}

func IsCSVMalformed(err error) bool {
	return errors.Is(err, ErrCSVMalformed) || errors.Is(err, ErrCSVHeaderMissing) || errors.Is(err, ErrCSVEmpty)
}

func IsCustomerSaveFailed(err error) bool {
	return errors.Is(err, ErrCustomerSaveFailed)
}

func IsNoCustomersInRegion(err error) bool {
	return errors.Is(err, ErrNoCustomersInRegion)
}

func IsLLMProviderFailed(err error) bool {
	return errors.Is(err, ErrLLMProviderFailed) || errors.Is(err, ErrEmptyLLMReply)
}

func IsEmailProviderFailed(err error) bool {
	return errors.Is(err, ErrEmailProviderFailed)
}

func IsProviderFailed(err error) bool {
	return IsSearchProviderFailed(err) || IsLLMProviderFailed(err) || IsEmailProviderFailed(err)
}
