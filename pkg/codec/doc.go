// Package codec provides bounds-checked byte-cursor primitives for packing
// and unpacking the fixed-width scalars and length-prefixed values that make
// up a framed record. It has no knowledge of record types or headers; those
// live in pkg/sample and pkg/registry.
package codec
