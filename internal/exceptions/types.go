package exceptions

import (
	"errors"
	"fmt"
	"strings"
)

type ServiceError struct {
	StatusCode int
	Cause      error
}

func (se *ServiceError) Error() string {
	return se.Cause.Error()
}

func (se *ServiceError) Unwrap() error {
	return se.Cause
}

type RequestError interface {
	ToServiceError() *ServiceError
	Error() string
}

// StatusCode resolves the HTTP status for any error in a chain, defaulting to 500.
func StatusCode(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var re RequestError
	if errors.As(err, &re) {
		return re.ToServiceError().StatusCode
	}
	return 500
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

func (nfe *NotFoundError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 404,
		Cause:      nfe,
	}
}

func NotFound(resource string, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       id,
	}
}

type InvalidInputError struct {
	Message string
}

func (ie *InvalidInputError) Error() string {
	return ie.Message
}

func (ie *InvalidInputError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ie,
	}
}

func InvalidInput(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

// ValidationError carries every violated constraint of a request, never just the first.
type ValidationError struct {
	Messages []string
}

func (ve *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(ve.Messages, ", ")
}

func (ve *ValidationError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ve,
	}
}

func Validation(messages ...string) *ValidationError {
	return &ValidationError{
		Messages: messages,
	}
}

type UnauthenticatedError struct{}

func (ue *UnauthenticatedError) Error() string {
	return "Unauthorized"
}

func (ue *UnauthenticatedError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 401,
		Cause:      ue,
	}
}

func Unauthenticated() *UnauthenticatedError {
	return &UnauthenticatedError{}
}

// MalformedKeyError signals a stored sort key that does not decode; a data integrity problem.
type MalformedKeyError struct {
	Key string
}

func (mke *MalformedKeyError) Error() string {
	return fmt.Sprintf("Malformed sort key: %q", mke.Key)
}

func (mke *MalformedKeyError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 500,
		Cause:      mke,
	}
}

func MalformedKey(key string) *MalformedKeyError {
	return &MalformedKeyError{
		Key: key,
	}
}

type GenerationFailure string

const (
	RATE_LIMITED        GenerationFailure = "RateLimited"
	INVALID_CREDENTIALS GenerationFailure = "InvalidCredentials"
	MALFORMED_OUTPUT    GenerationFailure = "MalformedOutput"
	UPSTREAM_REJECTED   GenerationFailure = "UpstreamRejected"
)

type GenerationFailedError struct {
	Reason GenerationFailure
	Cause  error
}

func (gfe *GenerationFailedError) Error() string {
	if gfe.Cause == nil {
		return fmt.Sprintf("Recipe generation failed: %s", gfe.Reason)
	}
	return fmt.Sprintf("Recipe generation failed (%s): %v", gfe.Reason, gfe.Cause)
}

func (gfe *GenerationFailedError) Unwrap() error {
	return gfe.Cause
}

func (gfe *GenerationFailedError) ToServiceError() *ServiceError {
	var statusCode int
	var message string
	switch gfe.Reason {
	case RATE_LIMITED:
		statusCode = 429
		message = "Service temporarily unavailable. Please try again later."
	case INVALID_CREDENTIALS:
		statusCode = 500
		message = "Service configuration error"
	case MALFORMED_OUTPUT:
		statusCode = 502
		message = "Recipe generation failed due to unexpected response format. Please try again."
	default:
		statusCode = 502
		message = "Recipe generation service is experiencing issues. Please try again later."
	}
	// The upstream detail stays in logs, clients only see the summary.
	return &ServiceError{
		StatusCode: statusCode,
		Cause:      errors.New(message),
	}
}

func GenerationFailed(reason GenerationFailure, cause error) *GenerationFailedError {
	return &GenerationFailedError{
		Reason: reason,
		Cause:  cause,
	}
}

type StoreUnavailableError struct {
	Operation string
	Cause     error
}

func (sue *StoreUnavailableError) Error() string {
	return fmt.Sprintf("Store unavailable during %s: %v", sue.Operation, sue.Cause)
}

func (sue *StoreUnavailableError) Unwrap() error {
	return sue.Cause
}

func (sue *StoreUnavailableError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 503,
		Cause:      errors.New("Storage is temporarily unavailable"),
	}
}

func StoreUnavailable(operation string, cause error) *StoreUnavailableError {
	return &StoreUnavailableError{
		Operation: operation,
		Cause:     cause,
	}
}

type InternalServerError struct {
	Message string
}

func (ise *InternalServerError) Error() string {
	return ise.Message
}

func (ise *InternalServerError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 500,
		Cause:      ise,
	}
}

func InternalServer(message string) *InternalServerError {
	return &InternalServerError{
		Message: message,
	}
}
