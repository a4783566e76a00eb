// Package preflight verifies that the paths clean-folder touches are usable
// before any file is moved.
//
// The root must be an existing directory the current user can read, write and
// traverse. Lock, log and history locations are checked when configured.
// The workflow stops at the first failed check; the CLI reports every result.
package preflight
