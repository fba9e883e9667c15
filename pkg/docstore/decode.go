package docstore

import (
	"bytes"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Unmarshal decodes raw into v. Documents held in interface values, such
// as nested preference or award entries, decode as bson.M rather than the
// driver's default bson.D, so map-shaped input reads back as a map.
// Arrays in interface values decode as bson.A.
func Unmarshal(raw bson.Raw, v any) error {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(raw)))
	dec.DefaultDocumentM()
	return dec.Decode(v)
}
