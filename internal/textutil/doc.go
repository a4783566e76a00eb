// Package textutil provides the string transforms used when files are renamed
// into category folders.
//
// Normalize is the filename normalizer: Ukrainian letters are transliterated to
// ASCII, other letters, numbers and underscores are kept, and anything else in
// the base name becomes an underscore, leaving the extension untouched. Input is composed to NFC first so
// names produced by filesystems that store decomposed Unicode transliterate the
// same way as composed ones.
package textutil
