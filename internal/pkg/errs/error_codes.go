/*
Package errs provides the application error type and its code table.

Codes are shared by the REST API (in the {code, message} response envelope) and
by server logs, so a client report can be matched to a server-side failure.
*/
package errs

// 1xxx: General request handling errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON request body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON body.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the per-IP request rate was exceeded.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Messaging errors
const (
	// ErrMessageContentEmpty indicates a message with no visible content.
	ErrMessageContentEmpty = 2201

	// ErrMessageContentTooLong indicates that the message exceeded the content size limit.
	ErrMessageContentTooLong = 2202

	// ErrReceiverRequired indicates a direct message or query without a counterpart.
	ErrReceiverRequired = 2203

	// ErrMessageRateLimited indicates that the sender is sending messages too quickly.
	ErrMessageRateLimited = 2204
)

// 3xxx: Authentication and authorization errors
const (
	// ErrUnauthorized indicates a missing, malformed or expired bearer token.
	ErrUnauthorized = 3001

	// ErrForbidden indicates that the caller's role does not allow the operation.
	ErrForbidden = 3002

	// ErrInvalidCredentials indicates a login with an unknown email or wrong password.
	ErrInvalidCredentials = 3003

	// ErrAccountDisabled indicates a login attempt on an account disabled by an administrator.
	ErrAccountDisabled = 3004
)

// 5xxx: Internal system errors
const (
	// ErrUnknown represents an unclassified server error.
	ErrUnknown = 5000

	// ErrStorageUnavailable indicates that the message store could not serve the request.
	ErrStorageUnavailable = 5001
)
