package service

import "errors"

// Error kinds. Every error returned by a service either is one of these or
// unwraps to one, so transports can map them to a status without knowing the
// specific failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Identity errors.
var (
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid username or password")
	ErrAccountExists      = newKindError(ErrConflict, "username or email already registered")
	ErrUserNotFound       = newKindError(ErrNotFound, "user not found")
	ErrTeacherRequired    = newKindError(ErrForbidden, "teacher role required")
	ErrStudentRequired    = newKindError(ErrForbidden, "student role required")
)

// Classroom errors.
var (
	ErrClassroomNotFound    = newKindError(ErrNotFound, "classroom not found")
	ErrClassroomNameTaken   = newKindError(ErrConflict, "a classroom with this name already exists")
	ErrClassroomNameInvalid = newKindError(ErrValidation, "classroom name must contain letters or digits")
	ErrNotClassroomCreator  = newKindError(ErrForbidden, "only the classroom creator may change it")
	ErrAlreadyMember        = newKindError(ErrConflict, "already a member of this classroom")
	ErrNotMember            = newKindError(ErrValidation, "not a member of this classroom")
)

// Exercise and test errors.
var (
	ErrExerciseNotFound    = newKindError(ErrNotFound, "exercise not found")
	ErrExerciseNameInvalid = newKindError(ErrValidation, "exercise name must contain letters or digits")
	ErrTestNotFound        = newKindError(ErrNotFound, "test not found")
	ErrInvalidTestType     = newKindError(ErrValidation, "test_type must be one of includes, exact")
)

// Submission errors.
var (
	ErrSubmissionNotFound      = newKindError(ErrNotFound, "submission not found")
	ErrSubmissionExists        = newKindError(ErrConflict, "submission already exists for this exercise")
	ErrSubmissionAccessDenied  = newKindError(ErrForbidden, "you do not have access to this submission")
	ErrSubmissionFieldDenied   = newKindError(ErrForbidden, "you may not modify this field")
	ErrSubmissionReviewed      = newKindError(ErrValidation, "submission has already been reviewed")
	ErrInvalidStatusTransition = newKindError(ErrValidation, "status change not allowed")
	ErrSubmissionCodeBinary    = newKindError(ErrValidation, "submitted code must be plain text")
	ErrEmptyPatch              = newKindError(ErrValidation, "no fields to update")
)
