// Package wire owns byte-level field primitives.
//
// Ownership boundary:
// - padded string and blob fields
// - big-endian numeric fields
// - type-tag field emission and the matching payload walk
//
// Every field ends on a 4-byte boundary. Strings carry at least one null
// terminator; blobs carry a 4-byte size and zero padding.
package wire
