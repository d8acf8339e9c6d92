package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationRevoked   = errors.New("invitation has been revoked")
	ErrInvitationCompleted = errors.New("invitation already completed")
	ErrNoQuestions         = errors.New("no questions available")
	ErrValueRequired       = errors.New("an answer is required before continuing")
	ErrValueInvalid        = errors.New("answer value does not fit the question type")
	ErrCommentRequired     = errors.New("a justification comment is required for this answer")
	ErrAtFirstQuestion     = errors.New("already at the first question")
	ErrNotFinalizing       = errors.New("session has not reached the finalization step")
	ErrSessionSubmitted    = errors.New("session already submitted")
	ErrSessionBusy         = errors.New("a submission for this session is already in flight")
	ErrProfileIncomplete   = errors.New("first name, last name, email and department are required")
)
