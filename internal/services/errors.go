package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes surfaced by the services.
type ErrorKind int

const (
	KindStorageFailure ErrorKind = iota
	KindNoToken
	KindInvalidToken
	KindNotFound
	KindAlreadyExists
	KindAlreadyInState
	KindNotInState
	KindForbidden
	KindValidationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoToken:
		return "no_token"
	case KindInvalidToken:
		return "invalid_token"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindAlreadyInState:
		return "already_in_state"
	case KindNotInState:
		return "not_in_state"
	case KindForbidden:
		return "forbidden"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "storage_failure"
	}
}

// Error is a classified service failure. Message is safe to show to clients,
// Err holds the internal cause if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func storageError(msg string, err error) *Error {
	return &Error{Kind: KindStorageFailure, Message: msg, Err: err}
}

// KindOf classifies err. Unclassified errors are storage failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var ve *VerificationError
	if errors.As(err, &ve) {
		return KindInvalidToken
	}
	return KindStorageFailure
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Messages returned to clients.
const (
	MsgNoToken            = "no token, authorization denied"
	MsgInvalidToken       = "token is not valid"
	MsgServerError        = "server error"
	MsgUserNotFound       = "user not found"
	MsgPostNotFound       = "post not found"
	MsgCommentNotFound    = "comment not found"
	MsgEmailTaken         = "email already in use"
	MsgUsernameTaken      = "username already in use"
	MsgInvalidCredentials = "invalid credentials"
	MsgSelfFollow         = "you cannot follow yourself"
	MsgAlreadyFollowing   = "you already follow this user"
	MsgNotFollowing       = "you do not follow this user"
	MsgAlreadyLiked       = "post already liked"
	MsgNotLiked           = "post has not yet been liked"
	MsgPostForbidden      = "user not authorized to delete this post"
	MsgCommentForbidden   = "user not authorized to delete this comment"
	MsgContentRequired    = "post content is required"
	MsgTextRequired       = "comment text is required"
	MsgUserIDsRequired    = "user ids are required"
)
