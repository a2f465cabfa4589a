// Package vmware wraps the govmomi client surface used by vcadm.
//
// It provides:
//
//   - Registry/Connection: explicit vCenter connection handles. There is no
//     ambient "current connection"; every service receives the Connection it
//     operates on, and copy-role receives two.
//   - NameFilter: the shared selection semantics of all query commands.
//     Pattern mode ORs regular expressions; literal mode quotes
//     metacharacters and anchors the whole string, so "host1" never matches
//     "host10".
//   - VMOperator/Manager: the mutation surface the evacuation executor is
//     written against (relocation, template conversion).
//   - TaskHandle: a reference to a submitted vCenter task. Wait polls the
//     task through the property collector with exponential backoff; it never
//     retries a failed operation, only the status read.
package vmware
