package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrCommentTooLong indicates the comment exceeds the character limit.
	ErrCommentTooLong = errors.New("comment exceeds character limit")
)

// RejectedError is returned when the backend accepted the request but
// refused it in the response body (an "error" field on a 2xx).
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}
