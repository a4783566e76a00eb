package organizer

import (
	"strings"

	"cleanfolder/internal/cleanup"
	"cleanfolder/internal/textutil"
)

const fallbackArchiveFolder = "archive"

// trailingArchiveSuffixes are stripped repeatedly from the end of a name.
var trailingArchiveSuffixes = []string{".zip", ".gz", ".tar"}

// legacyArchiveSuffixes are removed wherever they occur, in this order.
var legacyArchiveSuffixes = []string{".zip", ".gz", ".tar"}

// ArchiveFolderName derives the extraction folder for an archive file name.
// By default only trailing archive suffixes are removed, case-insensitively,
// so "backup.tar.gz" becomes "backup" and "ziplock.zip" stays "ziplock".
// In legacy mode every case-sensitive occurrence is dropped instead, which
// turns "my.zip.notes.zip" into "my.notes". A name that would look like a
// staging folder gets a leading underscore.
func ArchiveFolderName(name string, legacy bool) string {
	stripped := stripTrailing(name)
	if legacy {
		stripped = stripAll(name)
	}
	folder := textutil.Normalize(stripped)
	if folder == "" {
		return fallbackArchiveFolder
	}
	if strings.HasPrefix(folder, cleanup.StagingPrefix) {
		return "_" + folder
	}
	return folder
}

func stripTrailing(name string) string {
	for {
		lower := strings.ToLower(name)
		trimmed := false
		for _, suffix := range trailingArchiveSuffixes {
			if strings.HasSuffix(lower, suffix) {
				name = name[:len(name)-len(suffix)]
				trimmed = true
				break
			}
		}
		if !trimmed {
			return name
		}
	}
}

func stripAll(name string) string {
	for _, suffix := range legacyArchiveSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return name
}
