// Package manifest builds and writes the FilesList.txt report placed at the
// root of an organized tree.
//
// The report lists the extension sets gathered during the walk followed by
// the direct contents of each category folder, one line per category, using
// Python literal syntax for sets and lists. Entries are sorted so repeated
// runs over the same tree produce identical output.
package manifest
