package validators

import "go.mongodb.org/mongo-driver/bson"

var MailValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"to", "subject", "text", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"to": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},
			"subject": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},
			"text": bson.M{
				"bsonType": "string",
			},
			"html": bson.M{
				"bsonType": "string",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
