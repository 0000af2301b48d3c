// Package decode implements the recursive validating decoder: it walks a
// raw document value against a registered type schema and either produces a
// fully validated instance graph or fails with one of three diagnostics.
//
// MissingRequiredArgumentError: a required field has no key in the raw
// mapping. UnknownArgumentError: the raw mapping carries a key matching no
// field's source key. WrongTypeError: a value, container element, container
// key, or option candidate does not match its declared type. All three are
// fail-fast; no partial instance is ever returned.
//
// Decoding is reentrant: decoders share nothing but read-only schema
// lookups, so independent documents may be decoded concurrently once the
// registry is populated.
package decode
