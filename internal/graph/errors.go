package graph

import (
	"errors"

	dErrors "phonebook/pkg/domain-errors"
)

// GraphQL error extension codes exposed to clients. The set is closed;
// anything unrecognized collapses to the internal code.
const (
	codeBadUserInput    = "BAD_USER_INPUT"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeForbidden       = "FORBIDDEN"
	codeNotFound        = "NOT_FOUND"
	codeInternal        = "INTERNAL_SERVER_ERROR"
)

// resolverError adapts a coded domain error to the GraphQL error contract:
// the message plus extensions carrying the stable code and, for input
// errors, the offending arguments.
type resolverError struct {
	err *dErrors.Error
}

// translate wraps service errors for the executor. Uncoded errors become a
// generic internal failure so store details never reach clients.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if !errors.As(err, &de) {
		de = dErrors.New(dErrors.CodeInternal, "internal server error")
	}
	return &resolverError{err: de}
}

func (e *resolverError) Error() string {
	if e.err.Code == dErrors.CodeInternal {
		return "internal server error"
	}
	return e.err.Message
}

func (e *resolverError) Unwrap() error {
	return e.err
}

// Extensions implements the graphql-go extension hook.
func (e *resolverError) Extensions() map[string]any {
	ext := map[string]any{"code": gqlCode(e.err.Code)}
	if len(e.err.InvalidArgs) > 0 {
		ext["invalidArgs"] = e.err.InvalidArgs
	}
	return ext
}

func gqlCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeConflict, dErrors.CodeBadRequest:
		return codeBadUserInput
	case dErrors.CodeUnauthorized:
		return codeUnauthenticated
	case dErrors.CodeForbidden:
		return codeForbidden
	case dErrors.CodeNotFound:
		return codeNotFound
	default:
		return codeInternal
	}
}
