// Package archive unpacks zip, tar, tar.gz and single-file gzip archives into
// a directory.
//
// Extract never writes outside the destination: entries whose names escape it
// fail the whole extraction. Links, devices and other non-regular entries are
// skipped. Callers are expected to extract into a scratch directory and
// discard it on error.
package archive
