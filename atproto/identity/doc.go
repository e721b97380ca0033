/*
Package identity resolves account handles to DIDs.

The main abstraction is the [Resolver] interface. Implementations can be nested, somewhat like HTTP middleware: [APIResolver] asks a PDS (or AppView) over XRPC, and [CacheResolver] wraps any other Resolver with an expiring in-memory cache and request coalescing. [MockResolver] is an in-memory fake for tests.
*/
package identity
