package errs

import "net/http"

// errorMap holds the user-facing message and HTTP status for every code.
var errorMap = map[int]CustomError{
	// 1xxx
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx
	ErrMessageContentEmpty:   {Code: ErrMessageContentEmpty, Message: "Message cannot be empty.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrReceiverRequired:      {Code: ErrReceiverRequired, Message: "A receiver is required.", Status: http.StatusBadRequest},
	ErrMessageRateLimited:    {Code: ErrMessageRateLimited, Message: "You are sending messages too quickly.", Status: http.StatusTooManyRequests},

	// 3xxx
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Invalid or expired token.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "Forbidden: insufficient permissions.", Status: http.StatusForbidden},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid email or password.", Status: http.StatusUnauthorized},
	ErrAccountDisabled:    {Code: ErrAccountDisabled, Message: "This account has been disabled by an administrator.", Status: http.StatusForbidden},

	// 5xxx
	ErrUnknown:            {Code: ErrUnknown, Message: "Internal server error.", Status: http.StatusInternalServerError},
	ErrStorageUnavailable: {Code: ErrStorageUnavailable, Message: "Messages are temporarily unavailable.", Status: http.StatusInternalServerError},
}
