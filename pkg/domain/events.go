package domain

import "time"

// EventType identifies what happened
type EventType string

const (
	EventTypePostIngested     EventType = "post.ingested"
	EventTypePostClassified   EventType = "post.classified"
	EventTypeCampaignDetected EventType = "campaign.detected"
	EventTypeAlertRaised      EventType = "alert.raised"
)

// Event bus topics
const (
	TopicPosts     = "post.events"
	TopicCampaigns = "campaign.events"
	TopicAlerts    = "alert.events"
)

// Event is published on the event bus
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
