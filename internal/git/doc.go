// Package git checks whether lockfs key material is exposed to git.
//
// Checks performed:
//   - Whether the key file is tracked by git (must not be)
//   - Whether the key file is in .gitignore (should be)
//   - Whether the storage areas are in .gitignore (should be)
//
// Anyone holding an unsealed key file can decrypt every stored file.
package git
