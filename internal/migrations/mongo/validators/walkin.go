package validators

import "go.mongodb.org/mongo-driver/bson"

var WalkInValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"bike_type",
			"service_type",
			"amount_paid",
			"community_member",
			"timestamp",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"bike_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"service_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"amount_paid": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
				"maximum":  10000,
			},

			"community_member": bson.M{
				"bsonType": "bool",
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"timestamp": bson.M{
				"bsonType": "date",
			},
		},
	},
}
