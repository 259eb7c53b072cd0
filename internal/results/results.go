// Package results carries the success-or-failure outcome of a service
// operation without overloading the error return, which stays reserved for
// infrastructure problems.
package results

// OperationResult holds either a success value or a domain failure value.
// Exactly one side is set by the constructors.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success value.
func SuccessResult[S any, F any](value S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &value}
}

// FailureResult wraps a domain failure value.
func FailureResult[S any, F any](value F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &value}
}

// IsSuccess reports whether the result carries a success value.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether the result carries a failure value.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
