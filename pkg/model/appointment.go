package model

import "time"

type ContactInfo struct {
	Name        string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phone_number" bson:"phone_number" validate:"omitempty,max=32"`
	Email       string `json:"email" bson:"email" validate:"required,email"`
}

// Appointment is created by the public booking flow. Timestamp is the start
// of the reserved interval; CreatedAt decides which status fields apply.
type Appointment struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty"`
	UserInfo         ContactInfo       `json:"user_info" bson:"user_info"`
	BookingSelection map[string]string `json:"booking_selection,omitempty" bson:"booking_selection,omitempty"`
	EstimatedTime    int               `json:"estimated_time" bson:"estimated_time" validate:"min=0,max=480"`
	Experience       int               `json:"experience" bson:"experience" validate:"min=0,max=5"`
	SelectedDate     string            `json:"selected_date" bson:"selected_date"`
	SelectedTime     string            `json:"selected_time" bson:"selected_time"`
	Timestamp        time.Time         `json:"timestamp" bson:"timestamp"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`

	Completed bool `json:"completed" bson:"completed"`
	NoShow    bool `json:"no_show" bson:"no_show"`
	NoCure    bool `json:"no_cure" bson:"no_cure"`

	Paid   int  `json:"paid" bson:"paid"`
	Member bool `json:"member" bson:"member"`
}

// DeletedAppointment is the append-only audit copy written before an
// appointment is removed.
type DeletedAppointment struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty"`
	AppointmentID string      `json:"appointment_id" bson:"appointment_id"`
	Appointment   Appointment `json:"appointment" bson:"appointment"`
	DeletedAt     time.Time   `json:"deleted_at" bson:"deleted_at"`
	DeletedBy     string      `json:"deleted_by" bson:"deleted_by"`
}
