// Package category holds the fixed extension table that decides where each
// file is filed.
//
// The table is immutable and disjoint: every extension belongs to at most one
// of images, documents, audio, video or archives. Folders and others are
// catch-alls without extensions. A Registry is built once per run and shared by
// the walker; ExtensionOf is the single place that derives the comparison key
// from a filename.
package category
