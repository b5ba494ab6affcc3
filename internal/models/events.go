package models

import "time"

// Event types
const (
	EventTypeProductChanged = "PRODUCT_CHANGED"
	EventTypeCatalogChanged = "CATALOG_CHANGED"
	EventTypeLoginSubmitted = "LOGIN_SUBMITTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductChangedEvent is published by the catalog owner when one product changes.
type ProductChangedEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
}

// CatalogChangedEvent signals that the product list as a whole changed.
type CatalogChangedEvent struct {
	BaseEvent
}

// LoginSubmittedEvent is published for every accepted login submission.
type LoginSubmittedEvent struct {
	BaseEvent
	SubmissionID string `json:"submission_id"`
	Email        string `json:"email"`
}
