package entity

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrSlugTaken       = errors.New("proposal slug already taken")
	ErrDuplicate       = errors.New("record already exists")
	ErrStaleTransition = errors.New("record changed state concurrently")
	ErrAlreadySigned   = errors.New("proposal already has a signature")
)
