package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailableSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"timestamp", "booked"},
		"additionalProperties": true,

		"properties": bson.M{
			"timestamp": bson.M{
				"bsonType": "date",
			},
			"booked": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
