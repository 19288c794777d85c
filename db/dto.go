package db

import (
	"time"

	"github.com/pkg/errors"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// TimeLayout is the minute-precision format reminders are stored and
// compared with.
const TimeLayout = "2006-01-02 15:04"

// A Reminder pairs a user's free-text description with a target delivery
// time and a delivery status.
type Reminder struct {
	ID          int64
	UserID      int64
	Description string
	RemindAt    time.Time // minute precision
	Status      string    // pending or sent
}

var (
	ErrEmptyDescription = errors.New("description is empty")
	ErrBadTime          = errors.New("invalid reminder time")
)

// ParseReminderTime validates a date and a time in the YYYY-MM-DD HH:MM
// format and combines them into a timestamp.
func ParseReminderTime(date, tm string) (time.Time, error) {
	at, err := time.Parse(TimeLayout, date+" "+tm)
	if err != nil {
		return time.Time{}, ErrBadTime
	}
	return at, nil
}
