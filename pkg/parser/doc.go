// Package parser reads a file the engine's flush worker produced back
// into typed records and dispatches each to a Processor. It is grounded
// on storage_parser.hpp: a framed read loop that skips zero-payload and
// fragmentation-filler records, decodes the rest through a registry, and
// removes the file from disk once fully consumed.
package parser
