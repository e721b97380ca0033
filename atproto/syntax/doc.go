// Package syntax provides string types for the atproto identifiers earmuffs handles: DIDs, handles, AT-URIs, NSIDs, and record keys.
//
// These are syntax checks only. Resolving a handle to a DID is the job of the identity package.
package syntax
