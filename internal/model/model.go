package model

import "time"

type User struct {
	ID        int64
	Username  string
	PassHash  string
	IsAdmin   bool
	CreatedAt time.Time
}

// Pattern is an admin-defined input→output mapping. InputPattern is stored
// lowercase and unique under case-insensitive comparison.
type Pattern struct {
	ID            int64
	InputPattern  string
	OutputPattern string
	CreatedBy     int64
	CreatedAt     time.Time
}

// Entry tracks the one-time-reveal state of a single submission, scoped by
// (IPAddress, InputString). Accessed means the result has been shown;
// Reaccessible is a transient admin grant consumed by the next submission.
type Entry struct {
	ID                int64
	InputString       string
	TransformedString string
	IPAddress         string
	Accessed          bool
	Reaccessible      bool
	CreatedAt         time.Time
}

type LoginLog struct {
	ID         int64
	Username   string
	IPAddress  string
	LoggedInAt time.Time
}

type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}
