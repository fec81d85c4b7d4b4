package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidPatient  = errors.New("invalid patient")
	ErrDuplicateID     = errors.New("patient id already in use")
)
