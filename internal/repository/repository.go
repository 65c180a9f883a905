// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Lookups that find nothing return sql.ErrNoRows.
package repository

import (
	"errors"

	"taskapi/internal/model"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// ProjectUserFilter narrows membership queries. ProjectID is always applied;
// nil fields are ignored.
type ProjectUserFilter struct {
	ProjectID string
	UserID    *string
	Role      *model.Role
}

// TaskFilter narrows task queries. ProjectID is always applied; nil fields are ignored.
type TaskFilter struct {
	ProjectID        string
	Status           *model.TaskStatus
	UserID           *string
	IsCreatedByAdmin *bool
}
