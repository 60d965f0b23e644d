// Package builtin provides the functions available inside {{...}}
// placeholders.
//
// Available functions:
//   - uuid(): Random UUID v4
//   - now(): Current UTC time in RFC 3339
//   - date(layout): Current UTC date, "2006-01-02" by default
//   - timestamp(), timestampMs(): Current Unix time
//   - random(min, max): Random integer in range, 0..100 by default
//   - randomString(length): Random alphanumeric string
//   - base64(value): Base64 encode a string
//   - urlEncode(value): Query-escape a string
package builtin
