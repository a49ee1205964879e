package model

import "time"

// OutboxEmail is a write-only document picked up by the external mail worker.
type OutboxEmail struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	To        string    `json:"to" bson:"to"`
	Subject   string    `json:"subject" bson:"subject"`
	Text      string    `json:"text" bson:"text"`
	HTML      string    `json:"html" bson:"html"`
	Template  string    `json:"template,omitempty" bson:"template,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
