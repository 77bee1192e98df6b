package models

import "time"

// DisplayTimeLayout renders event times the way the dashboard shows them,
// e.g. "Sat, Mar 7, 6:30 PM".
const DisplayTimeLayout = "Mon, Jan 2, 3:04 PM"

// Event is a scheduled clan activity members can sign up for.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Time        string    `json:"time"`
	StartsAt    time.Time `json:"eventDate"`
	Host        string    `json:"host"`
	// Attendees preserves signup order; membership is unique.
	Attendees       []string  `json:"attendees"`
	ReminderMinutes *int      `json:"reminderMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HasAttendee reports whether the member is currently signed up.
func (e *Event) HasAttendee(member string) bool {
	for _, a := range e.Attendees {
		if a == member {
			return true
		}
	}
	return false
}
