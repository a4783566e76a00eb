// Package cleanup tidies an organized tree.
//
// RemoveEmpty prunes empty directories bottom-up. CreateStaging makes marked
// extraction scratch folders and CleanStale clears out the ones an
// interrupted run abandoned; unmarked folders are never removed. Removal is best
// effort: failures are collected and returned rather than aborting.
package cleanup
