package incident

import "errors"

var (
	ErrIncidentNotFound   = errors.New("incident not found")
	ErrInvalidIncident    = errors.New("invalid incident")
	ErrUnknownPatient     = errors.New("incident references unknown patient")
	ErrDuplicateID        = errors.New("incident id already in use")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidDataURL     = errors.New("invalid data url")
	ErrAttachmentTooLarge = errors.New("attachment too large")
)
