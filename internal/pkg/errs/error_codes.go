/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with polling clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat Business Logic Errors
const (
	// ErrDisplayNameRequired indicates that the join form was submitted without a display name.
	ErrDisplayNameRequired = 2101

	// ErrAvatarInvalid indicates that the chosen avatar is not part of the supported set.
	ErrAvatarInvalid = 2102

	// ErrEmptyMessage indicates that a message was empty or whitespace-only after trimming.
	ErrEmptyMessage = 2201

	// ErrMessageTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageTooLong = 2202
)

// 3xxx: Session Errors
const (
	// ErrNotJoined indicates that a send was attempted before joining the room.
	ErrNotJoined = 3001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrJoinFailed indicates that the profile record could not be persisted.
	ErrJoinFailed = 5001

	// ErrSendFailed indicates that the message record could not be persisted.
	ErrSendFailed = 5002

	// ErrRoomUnavailable indicates that the message list could not be read from the store.
	ErrRoomUnavailable = 5003
)
