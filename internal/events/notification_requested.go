package events

import "time"

const NotificationRequestedTopic = "workforce.notification.requested.v1"

type NotificationRequestedEvent struct {
	EventType     string    `json:"event_type"`
	Recipients    []string  `json:"recipients"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Severity      string    `json:"severity"`
	RelatedEntity string    `json:"related_entity,omitempty"`
	RelatedID     string    `json:"related_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
