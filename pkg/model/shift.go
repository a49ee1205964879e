package model

type Shift struct {
	ID    string   `json:"id,omitempty" bson:"_id,omitempty"`
	Date  string   `json:"date" bson:"date"`
	Hosts []string `json:"hosts" bson:"hosts"`
}
