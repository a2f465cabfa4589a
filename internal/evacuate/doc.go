// Package evacuate plans and executes the relocation of every VM and
// template off a source datastore.
//
// # Pipeline
//
//	┌───────────┐   ┌─────────┐   ┌──────────┐
//	│ Discovery │──▶│ Planner │──▶│ Executor │
//	└───────────┘   └─────────┘   └──────────┘
//	 datastore vm    pure, random   dispatch per
//	 property walk   pool picks     object kind
//
// Discovery enumerates the datastore's vm property and records, per
// candidate, the config-file datastore and every disk's backing datastore.
// The planner is a pure function: candidates in, plans and skips out. Each
// disk and each config file resident on the source gets an independent,
// uniformly random member of the destination pool; anything resident
// elsewhere becomes an explicit no-op entry. Randomness is injectable so
// tests can pin placement.
//
// The executor applies plans one at a time and never aborts the batch:
// failures are attributed to their object and the loop continues.
//
// # Template handling
//
// Templates cannot be relocated directly. The executor drives a two-phase
// state transition:
//
//	Template ──MarkAsVirtualMachine──▶ Machine ──MarkAsTemplate──▶ Template
//	                                    │
//	                              relocate (sync)
//
// The relocation is only valid in the middle state and is always
// synchronous, regardless of the async flag. Reconversion runs under defer,
// so a template is restored even when its relocation fails; a reconversion
// failure is joined to the relocation error.
//
// # Dry runs
//
// A dry run produces byte-for-byte the same report records as a real run,
// with the mutation skipped and DryRun set.
package evacuate
