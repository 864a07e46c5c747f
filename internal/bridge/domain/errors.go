package domain

import "errors"

//region ConfigurationError

// ConfigurationError reports an invalid rule table or shop catalog. It blocks activation at
// startup and aborts a reload.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

//endregion

//region ServiceUnavailableError

// ServiceUnavailableError is the only error class the coordinator retries.
type ServiceUnavailableError struct {
	Msg string
	Err error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ServiceUnavailableError) Is(target error) bool {
	_, ok := target.(*ServiceUnavailableError)
	return ok
}

//endregion

//region NoRuleMatchedError

type NoRuleMatchedError struct {
	Msg string
}

func (e *NoRuleMatchedError) Error() string {
	return e.Msg
}

func (e *NoRuleMatchedError) Is(target error) bool {
	_, ok := target.(*NoRuleMatchedError)
	return ok
}

//endregion

//region InvalidArgumentsError

type InvalidArgumentsError struct {
	Msg string
}

func (e *InvalidArgumentsError) Error() string {
	return e.Msg
}

func (e *InvalidArgumentsError) Is(target error) bool {
	_, ok := target.(*InvalidArgumentsError)
	return ok
}

//endregion

//region InsufficientFundsError

type InsufficientFundsError struct {
	Msg string
}

func (e *InsufficientFundsError) Error() string {
	return e.Msg
}

func (e *InsufficientFundsError) Is(target error) bool {
	_, ok := target.(*InsufficientFundsError)
	return ok
}

//endregion

//region AccountNotFoundError

type AccountNotFoundError struct {
	Msg string
}

func (e *AccountNotFoundError) Error() string {
	return e.Msg
}

func (e *AccountNotFoundError) Is(target error) bool {
	_, ok := target.(*AccountNotFoundError)
	return ok
}

//endregion

//region InvariantViolationError

type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string {
	return e.Msg
}

func (e *InvariantViolationError) Is(target error) bool {
	_, ok := target.(*InvariantViolationError)
	return ok
}

//endregion

//region CancelledError

type CancelledError struct {
	Msg string
}

func (e *CancelledError) Error() string {
	return e.Msg
}

func (e *CancelledError) Is(target error) bool {
	_, ok := target.(*CancelledError)
	return ok
}

//endregion

//region OfferNotFoundError

type OfferNotFoundError struct {
	Msg string
}

func (e *OfferNotFoundError) Error() string {
	return e.Msg
}

func (e *OfferNotFoundError) Is(target error) bool {
	_, ok := target.(*OfferNotFoundError)
	return ok
}

//endregion

//region OutOfStockError

type OutOfStockError struct {
	Msg string
}

func (e *OutOfStockError) Error() string {
	return e.Msg
}

func (e *OutOfStockError) Is(target error) bool {
	_, ok := target.(*OutOfStockError)
	return ok
}

//endregion

//region PermissionDeniedError

type PermissionDeniedError struct {
	Msg string
}

func (e *PermissionDeniedError) Error() string {
	return e.Msg
}

func (e *PermissionDeniedError) Is(target error) bool {
	_, ok := target.(*PermissionDeniedError)
	return ok
}

//endregion

//region SessionNotFoundError

type SessionNotFoundError struct {
	Msg string
}

func (e *SessionNotFoundError) Error() string {
	return e.Msg
}

func (e *SessionNotFoundError) Is(target error) bool {
	_, ok := target.(*SessionNotFoundError)
	return ok
}

//endregion

//region TransactionNotFoundError

type TransactionNotFoundError struct {
	Msg string
}

func (e *TransactionNotFoundError) Error() string {
	return e.Msg
}

func (e *TransactionNotFoundError) Is(target error) bool {
	_, ok := target.(*TransactionNotFoundError)
	return ok
}

//endregion

// IsTransient reports whether err is worth retrying against the economy service.
func IsTransient(err error) bool {
	return errors.Is(err, &ServiceUnavailableError{})
}

// IsValidation reports whether err is a business rejection that is shown to the player as is.
func IsValidation(err error) bool {
	return errors.Is(err, &InsufficientFundsError{}) ||
		errors.Is(err, &AccountNotFoundError{}) ||
		errors.Is(err, &InvalidArgumentsError{}) ||
		errors.Is(err, &OfferNotFoundError{}) ||
		errors.Is(err, &OutOfStockError{}) ||
		errors.Is(err, &PermissionDeniedError{}) ||
		errors.Is(err, &SessionNotFoundError{}) ||
		errors.Is(err, &TransactionNotFoundError{}) ||
		errors.Is(err, &CancelledError{})
}
