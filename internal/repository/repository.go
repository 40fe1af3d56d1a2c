package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectID parses a hex id coming from a URL or token. Malformed ids can
// never match a document, so callers report them as not found.
func objectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
