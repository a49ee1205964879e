package validators

import "go.mongodb.org/mongo-driver/bson"

// Appointments are written by the public booking flow, so only the fields
// the staff API depends on are enforced.
var AppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_info", "timestamp"},
		"additionalProperties": true,

		"properties": bson.M{
			"user_info": bson.M{
				"bsonType": "object",
				"required": []string{"email"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"maxLength": 100,
					},
					"email": bson.M{
						"bsonType":  "string",
						"minLength": 3,
					},
					"phone_number": bson.M{
						"bsonType":  "string",
						"maxLength": 32,
					},
				},
			},

			"timestamp": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"estimated_time": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  480,
			},

			"paid": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1,
			},

			"completed": bson.M{"bsonType": "bool"},
			"no_show":   bson.M{"bsonType": "bool"},
			"no_cure":   bson.M{"bsonType": "bool"},
			"member":    bson.M{"bsonType": "bool"},
		},
	},
}

var DeletedAppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"appointment_id", "appointment", "deleted_at", "deleted_by"},
		"additionalProperties": true,

		"properties": bson.M{
			"appointment_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"appointment": bson.M{
				"bsonType": "object",
			},
			"deleted_at": bson.M{
				"bsonType": "date",
			},
			"deleted_by": bson.M{
				"bsonType": "string",
			},
		},
	},
}
