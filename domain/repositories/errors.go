package repositories

import "errors"

var (
	// ErrNotFound ไม่พบ record
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate ละเมิด unique constraint (username/email)
	ErrDuplicate = errors.New("duplicate record")
)
