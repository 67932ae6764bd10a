// Package manifest reads the event feed: a CSV listing of photo identifiers
// and capture timestamps produced by an external library enumerator.
//
// Each row is "id,taken_at" where taken_at is either epoch milliseconds or an
// RFC 3339 time. A leading UTF-8 byte order mark and an optional header row
// are tolerated since exports from desktop tooling commonly carry both.
package manifest
