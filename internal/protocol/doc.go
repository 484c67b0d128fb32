// Package protocol owns packet encoding and decoding.
//
// Ownership boundary:
// - message and bundle models
// - the shared encode-and-cache contract (Packet)
// - packet decoding entry points
//
// A message is laid out as an address string, a type-tag string starting
// with ',' and the argument payloads in tag order. A bundle is "#bundle", an
// 8-byte time tag, then size-prefixed elements.
package protocol
