package model

import "time"

type AvailableSlot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Booked    bool      `json:"booked" bson:"booked"`
}
