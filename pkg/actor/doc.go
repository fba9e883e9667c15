// Package actor holds the Actor model and its BSON codec.
//
// Encoding writes only the fields that are present, and decoding fills
// missing fields with zero values. Stored documents can therefore gain or
// lose optional fields without a migration. Actor implements bson.Marshaler
// and bson.Unmarshaler, so the driver uses the codec whenever an Actor is
// written or read.
//
// Identifiers are ObjectIDs. GenerateIDIfAbsent assigns one before the first
// write. ID fails with ErrMissingID, which wraps
// docstore.ErrInvariantViolation, when it is called on an actor that has
// none.
package actor
