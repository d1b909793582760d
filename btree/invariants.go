//go:build invariants

package btree

// invariantsEnabled makes every Insert and Delete verify the whole tree and panic on the first violation.
const invariantsEnabled = true
