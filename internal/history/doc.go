// Package history ingests location history samples and answers
// nearest-timestamp queries over them.
//
// An Index is built once from the raw export records, normalized (E7
// fixed-point coordinates become decimal degrees) and sorted by timestamp,
// then queried any number of times. The index never mutates after Build, so
// concurrent lookups need no locking.
package history
