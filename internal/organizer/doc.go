// Package organizer relocates discovered files into their category folders.
//
// Plain files are moved to <root>/<category>/ under their normalized name; a
// name already taken at the destination gets a numeric suffix and is never
// overwritten. Archives are extracted into <root>/archives/<name>/ through a
// hidden staging directory so a failed extraction leaves nothing behind but
// the untouched source archive. Successful extraction removes the source.
//
// Errors are wrapped with faults markers: ErrFilesystem for moves and
// ErrArchive for extractions, which the workflow treats as non-fatal.
package organizer
