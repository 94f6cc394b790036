package controllers

import "errors"

var (
	// ErrValidation means the form buffer failed client-side validation;
	// the per-field messages are on the controller's FormErrors.
	ErrValidation = errors.New("controllers: form validation failed")

	// ErrNoSelection means a submit was attempted with no record selected
	// (edit/delete without an open dialog).
	ErrNoSelection = errors.New("controllers: no record selected")
)
