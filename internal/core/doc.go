// Package core provides the lockfs storage manager.
//
// A Manager owns two storage roots, persistent ("data") and transient
// ("temp"), and one Fernet key kept as <uuid>.key in the transient root.
//
// Core operations include:
//   - Save/Edit: Serialize text, JSON or binary content, optionally encrypted
//   - Read: Decode by name suffix, decrypting E:: payloads
//   - Delete/DeleteFolder/Clear: Remove files within one root, never the key
//   - List/Summary/Search: Inspect a root without caching
//   - Diff: Compare stored content with a candidate before editing
//
// Every per-operation failure is an *Error whose message can be shown to
// the user as-is; Kind and the Err* sentinels allow branching with
// errors.Is.
package core
