package dto

import "time"

// CreateEventRequest defines the payload for scheduling a clan event.
type CreateEventRequest struct {
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"eventDate" validate:"required"`
	Host            string    `json:"host" validate:"required"`
	ReminderMinutes *int      `json:"reminderMinutes,omitempty" validate:"omitempty,gt=0"`
}

// SetReminderRequest updates an event's reminder lead time. A null value
// clears the reminder and cancels any pending notification.
type SetReminderRequest struct {
	Minutes *int `json:"minutes" validate:"omitempty,gt=0"`
}
