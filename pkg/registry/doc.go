// Package registry binds sample.TypeID values to the deserializer for that
// type, so a parser can turn a raw payload back into a concrete value
// without knowing the set of supported types at compile time. It is
// grounded on type_registry.hpp, whose variadic-template type list and
// std::variant return value have no direct Go equivalent: Go substitutes a
// generic Register function collecting one Registration per type, and
// get_type's optional<variant_t> becomes Lookup returning (Decoder, bool)
// plus a caller-driven switch on TypeID.
package registry
