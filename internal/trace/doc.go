// Package trace renders simulation events and profiles as canonical JSON.
//
// Canonical JSON has sorted object keys (UTF-16 code unit order), NFC
// normalized strings, no HTML escaping, and no floats or nulls. It is the
// only encoding used for golden traces and content hashes, so equal inputs
// always produce equal bytes.
package trace
