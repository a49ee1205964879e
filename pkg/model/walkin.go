package model

import "time"

type WalkIn struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	BikeType        string    `json:"bike_type" bson:"bike_type"`
	ServiceType     string    `json:"service_type" bson:"service_type"`
	AmountPaid      float64   `json:"amount_paid" bson:"amount_paid"`
	CommunityMember bool      `json:"community_member" bson:"community_member"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
}

// WalkInRequest is the intake form. AmountPaid is required unless the
// customer is a community member, in which case it is forced to zero.
type WalkInRequest struct {
	BikeType        string   `json:"bike_type" validate:"required,min=1,max=100"`
	ServiceType     string   `json:"service_type" validate:"required,min=1,max=100"`
	AmountPaid      *float64 `json:"amount_paid" validate:"required_unless=CommunityMember true,omitempty,min=0,max=10000"`
	CommunityMember bool     `json:"community_member"`
	Notes           string   `json:"notes" validate:"max=1000"`
}

type WalkInUpdate struct {
	BikeType        *string  `json:"bike_type,omitempty" validate:"omitempty,min=1,max=100"`
	ServiceType     *string  `json:"service_type,omitempty" validate:"omitempty,min=1,max=100"`
	AmountPaid      *float64 `json:"amount_paid,omitempty" validate:"omitempty,min=0,max=10000"`
	CommunityMember *bool    `json:"community_member,omitempty"`
	Notes           *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
