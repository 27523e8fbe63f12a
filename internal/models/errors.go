package models

import "errors"

var (
	ErrInvalidOrder  = errors.New("invalid order payload")
	ErrInvalidUpdate = errors.New("invalid update payload")
	ErrOrderNotFound = errors.New("order not found")

	ErrMissingURI   = errors.New("mongo uri not set")
	ErrNotConnected = errors.New("database not connected")

	ErrPathTraversal = errors.New("invalid image path")
	ErrImageNotFound = errors.New("image not found")
)
