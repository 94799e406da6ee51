package board

import "errors"

// Sentinel errors for project edits and element reconstruction.
var (
	// ErrNameTaken indicates a rename would collide with another live file.
	ErrNameTaken = errors.New("file name already in use")
	// ErrNoSuchFile indicates no live file carries the requested name.
	ErrNoSuchFile = errors.New("no such file")
	// ErrEmptyName indicates a file was given a blank name.
	ErrEmptyName = errors.New("file name is empty")
	// ErrUnknownKind indicates an element record carries an unrecognised type tag.
	ErrUnknownKind = errors.New("unknown element type")
	// ErrMissingField indicates an element record lacks a field its variant requires.
	ErrMissingField = errors.New("required field missing")
	// ErrImageUnavailable indicates an image element's source could not be read.
	ErrImageUnavailable = errors.New("image unavailable")
)
