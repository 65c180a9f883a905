package service

import "errors"

// Credential validation.
var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrEmailExists      = errors.New("email already exists")
	ErrEmailTooShort    = errors.New("email should be at least 8 characters")
	ErrPasswordTooShort = errors.New("password length should be greater than 8")
)

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotProjectMember   = errors.New("user not found in this project")
	ErrCannotAssignMember = errors.New("you cannot assign")
	ErrCannotAssignTask   = errors.New("you cannot assign task")
)

// Lookups.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAssigneeNotFound   = errors.New("assigned user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrLinkedTaskNotFound = errors.New("linked task not found in this project")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// Input validation.
var (
	ErrInvalidRole        = errors.New("role must be admin or user")
	ErrInvalidStatus      = errors.New("status must be todo, in_progress or done")
	ErrTitleRequired      = errors.New("title is required")
	ErrNameRequired       = errors.New("name is required")
	ErrMembershipExists   = errors.New("user is already a member of this project")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the size limit")
	ErrReaderNil          = errors.New("reader is nil")
)
