package srs

import "errors"

var (
	ErrInvalidState  = errors.New("srs: invalid progress state")
	ErrInvalidGrade  = errors.New("srs: invalid grade")
	ErrInvalidConfig = errors.New("srs: invalid scheduler config")
)
