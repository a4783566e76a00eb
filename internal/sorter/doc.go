// Package sorter walks a directory tree and buckets every file it finds by
// category.
//
// The walk is read-only. Directories named after a category are treated as
// already sorted and skipped at any depth; all other directories are recorded
// as folders and descended into. Symlinks are never followed. Files are
// classified by their final extension through a category.Registry, and the
// registered and unknown extension sets are collected along the way for the
// manifest.
package sorter
