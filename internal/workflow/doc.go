// Package workflow runs one organizer pass over a root directory.
//
// A run checks the root and configured paths, takes the per-root lock, walks
// the tree, relocates plain files category by category (images, documents,
// audio, video, others), extracts archives, prunes empty directories, writes
// the FilesList.txt manifest and optionally journals the run in history.
//
// Archive failures are logged and counted; the run continues. Plain move
// failures are logged and counted too, but the run reports an error once the
// cleanup and manifest steps have finished. Cancellation stops relocation
// before the next file and skips the remaining steps.
//
// Plan performs the walk alone and reports where each file would go, without
// touching the tree.
package workflow
