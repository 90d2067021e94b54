// Package dataset reads and writes the flat binary dataset format the
// join engine consumes.
//
// Layout: the file body is count fixed-size records, one serialized
// object each (see package object for the per-kind layouts). A trailing
// header follows the body:
//
//	uint32   object kind tag
//	uint64   object count
//	uint32   per-object byte size
//	float64  universe low x,y,z
//	float64  universe high x,y,z
//
// All fields little-endian; the header is 16 + 2*3*8 = 64 bytes. A
// reader seeks to EOF-64, parses the header, validates it against the
// known kinds and the body length, then rewinds and streams records.
//
// Errors:
//
//	ErrBadHeader   — header shorter than expected, unknown kind tag, or
//	                 record size disagreeing with the kind.
//	ErrTruncated   — body shorter than count*recordSize.
//
// Both are wrapped with the file name; match with errors.Is.
package dataset
