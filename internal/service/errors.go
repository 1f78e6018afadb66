package service

import "errors"

var (
	// ErrNotDeletable is returned when a menu subtree contains a locked node.
	ErrNotDeletable = errors.New("menu node is not deletable")
	// ErrDuplicateRoot is returned when a site already has a root of that name.
	ErrDuplicateRoot = errors.New("menu root already exists")
)
