package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithTimeout bounds ctx by timeout unless the caller already set a longer
// deadline, in which case the caller's deadline is kept.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// ObjectID parses a hex document id. ok is false for anything that is not a
// 24 character hex string.
func ObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// IDFilter matches a document by ObjectID when id is hex and by the raw
// string otherwise, so imported documents keep their original ids.
func IDFilter(id string) bson.M {
	if oid, ok := ObjectID(id); ok {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// InsertedHex returns the hex form of an InsertOne result id, or "" when the
// id is not an ObjectID.
func InsertedHex(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	if s, ok := id.(string); ok {
		return s
	}
	return ""
}
