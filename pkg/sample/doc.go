// Package sample defines the type contract a record type must satisfy to
// be stored and later decoded by the trace-cache engine: a stable numeric
// identifier, a byte-size helper, and a serializer. The inverse
// (deserialization) is bound per type into a pkg/registry.Registry rather
// than exposed as an interface method, since Go has no way to express
// "return Self" polymorphically.
package sample
