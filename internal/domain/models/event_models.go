package models

import "time"

type EventType string

const (
	EventInfo    EventType = "info"
	EventSuccess EventType = "success"
	EventWarning EventType = "warning"
	EventError   EventType = "error"
)

// Event - запись журнала событий контроллера
type Event struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Type  EventType `json:"type"`
}

type EventListResponse struct {
	Events []Event `json:"events"`
}
