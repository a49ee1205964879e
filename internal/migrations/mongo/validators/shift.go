package validators

import "go.mongodb.org/mongo-driver/bson"

var ShiftValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"date", "hosts"},
		"additionalProperties": true,

		"properties": bson.M{
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"hosts": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
			},
		},
	},
}
