/*
Package blocklist keeps Bluesky lists in sync with a declarative membership specification.

A [BlocklistSpec] names a list and gives two sequences of [Source]: includes and excludes. Each source is the followers of an account, the follows of an account, or a literal set of accounts. The [Resolver] turns a spec in to a target [AccountSet]: the union of all includes, minus the union of all excludes. Exclusion always wins. All set operations are done on DIDs; handles are resolved first.

The [MemberReader] reads a list's current membership ([Membership]), [Reconcile] computes a [Plan] from it, and the [Applier] carries the plan out: add every target account which is not on the list, and remove every list item whose subject is not in the target (plus any duplicate items). Mutations are best-effort: a failed add or remove is recorded as a [MutationError] and the remaining operations still run. Nothing is rolled back.

The [Runner] drives a full batch run over several specs, isolating failures per list. A list which does not exist yet is created, and reconciliation for it is skipped until the next run, because list creation is not visible immediately in the AppView.

Remote state is read through the [Remote] interface and written through [ListMutator]; [ListDirectory] finds the account's lists by name. [BskyRemote] implements both interfaces over XRPC; [FakeRemote] is an in-memory implementation for tests.
*/
package blocklist
