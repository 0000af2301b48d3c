// Package schema defines the static shape of aggregate types: descriptors
// for field types, per-field contracts (source key, default, allowed
// options), and the ordered type schema built from them.
//
// A Type is assembled with the builder API (NewType, F) or loaded from an
// HCL manifest, and is validated and frozen when it is registered. All
// schema mistakes (untyped containers, defaults of the wrong kind, options
// that disagree with the field type) surface at registration time, before
// any document is decoded.
package schema
