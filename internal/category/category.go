package category

import (
	"fmt"
	"strings"
)

// Category names one of the fixed classification buckets.
type Category string

const (
	Images    Category = "images"
	Documents Category = "documents"
	Audio     Category = "audio"
	Video     Category = "video"
	Archives  Category = "archives"
	Folders   Category = "folders"
	Others    Category = "others"
)

// All lists every category; the extension-bearing ones come first in match priority order.
var All = []Category{Images, Documents, Audio, Video, Archives, Folders, Others}

// FileCategories are the categories that receive files, in relocation order.
// Archives come last so extracted contents are never re-sorted.
var FileCategories = []Category{Images, Documents, Audio, Video, Others, Archives}

type entry struct {
	category   Category
	extensions []string
}

var table = []entry{
	{Images, []string{"JPEG", "PNG", "JPG", "SVG"}},
	{Documents, []string{"DOC", "DOCX", "TXT", "PDF", "XLSX", "PPTX"}},
	{Audio, []string{"MP3", "OGG", "WAV", "AMR"}},
	{Video, []string{"AVI", "MP4", "MOV", "MKV"}},
	{Archives, []string{"ZIP", "GZ", "TAR"}},
}

// String returns the folder name for c.
func (c Category) String() string { return string(c) }

// IsReserved reports whether name is exactly one of the category folder names.
func IsReserved(name string) bool {
	for _, c := range All {
		if string(c) == name {
			return true
		}
	}
	return false
}

// Registry resolves uppercase extensions to categories.
// Because construction rejects overlapping extensions, a single lookup gives
// the same answer as scanning categories in priority order.
type Registry struct {
	lookup map[string]Category
}

// NewRegistry builds the registry from the fixed table. It fails if an
// extension is claimed by two categories.
func NewRegistry() (*Registry, error) {
	return newRegistry(table)
}

func newRegistry(entries []entry) (*Registry, error) {
	lookup := make(map[string]Category)
	for _, e := range entries {
		for _, ext := range e.extensions {
			key := strings.ToUpper(ext)
			if owner, ok := lookup[key]; ok {
				return nil, fmt.Errorf("extension %s registered for both %s and %s", key, owner, e.category)
			}
			lookup[key] = e.category
		}
	}
	return &Registry{lookup: lookup}, nil
}

// MustRegistry is NewRegistry for package-level wiring; it panics on a broken table.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the category owning ext (uppercase, no dot). The second
// result is false when no category recognizes it.
func (r *Registry) Match(ext string) (Category, bool) {
	if r == nil || ext == "" {
		return "", false
	}
	c, ok := r.lookup[ext]
	return c, ok
}

// Classify returns the category for a filename along with its extension.
// Names without an extension, and unknown extensions, land in Others; known
// reports whether the extension matched the table.
func (r *Registry) Classify(name string) (c Category, ext string, known bool) {
	ext = ExtensionOf(name)
	if ext == "" {
		return Others, "", false
	}
	if c, ok := r.Match(ext); ok {
		return c, ext, true
	}
	return Others, ext, false
}

// ExtensionOf returns the final suffix of name, uppercased and without the dot.
// A leading dot alone (".bashrc") or a trailing dot ("report.") yields "".
func ExtensionOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToUpper(name[i+1:])
}
