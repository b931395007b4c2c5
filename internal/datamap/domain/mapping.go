package domain

import "time"

// DataMapping is a user-owned record of a data processing activity. Title and
// department are required; description and data-subject type default to empty.
// DataSubjectType may encode multiple labels as a delimited list; the server
// treats it as an opaque string.
type DataMapping struct {
	ID              int64
	Title           string
	Description     string
	Department      string
	DataSubjectType string
	UserID          int64 // owning user, immutable after creation
	CreatedAt       time.Time
}
