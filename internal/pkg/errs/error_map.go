/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat Business Logic Errors
	ErrDisplayNameRequired: {Code: ErrDisplayNameRequired, Message: "Please enter a display name."},
	ErrAvatarInvalid:       {Code: ErrAvatarInvalid, Message: "Please pick one of the available avatars."},
	ErrEmptyMessage:        {Code: ErrEmptyMessage, Message: "Message cannot be empty."},
	ErrMessageTooLong:      {Code: ErrMessageTooLong, Message: "Message is too long."},

	// 3xxx: Session Errors
	ErrNotJoined: {Code: ErrNotJoined, Message: "Join the chat before sending messages."},

	// 5xxx: Internal System Errors
	ErrUnknown:         {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrJoinFailed:      {Code: ErrJoinFailed, Message: "Failed to save your profile. Please try again."},
	ErrSendFailed:      {Code: ErrSendFailed, Message: "Failed to send message. Please try again."},
	ErrRoomUnavailable: {Code: ErrRoomUnavailable, Message: "Chat is temporarily unavailable. Please try again later."},
}
