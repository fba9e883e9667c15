package docstore

import "go.mongodb.org/mongo-driver/v2/bson"

// Eq builds an equality filter on a single field.
func Eq(field string, value any) bson.D {
	return bson.D{{Key: field, Value: value}}
}

// And merges equality filters into one filter document.
// Later filters win when the same field appears twice.
func And(filters ...bson.D) bson.D {
	out := bson.D{}
	for _, f := range filters {
		for _, e := range f {
			replaced := false
			for i := range out {
				if out[i].Key == e.Key {
					out[i].Value = e.Value
					replaced = true
					break
				}
			}
			if !replaced {
				out = append(out, e)
			}
		}
	}
	return out
}

// Set builds a $set update document.
func Set(fields any) bson.D {
	return bson.D{{Key: "$set", Value: fields}}
}

// Project returns FindOptions that limit the result to the given fields.
func Project(fields ...string) FindOptions {
	return FindOptions{Projection: fields}
}

// Upsert returns UpdateOptions with upsert enabled.
func Upsert() UpdateOptions {
	return UpdateOptions{Upsert: true}
}
