package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cleanfolder/internal/category"
	"cleanfolder/internal/faults"
	"cleanfolder/internal/sorter"
)

// FileName is the manifest written directly under the organized root.
const FileName = sorter.ManifestName

// Section is one category line of the manifest.
type Section struct {
	Label    string
	Category category.Category
	Entries  []string
}

// Manifest is the rendered-ready content of FilesList.txt.
type Manifest struct {
	Registered []string
	Unknown    []string
	Sections   []Section
}

// sectionOrder fixes the line order; archives keeps its historical singular label.
var sectionOrder = []struct {
	label    string
	category category.Category
}{
	{"images", category.Images},
	{"documents", category.Documents},
	{"audio", category.Audio},
	{"video", category.Video},
	{"archive", category.Archives},
	{"others", category.Others},
}

// Build lists the category folders under root. A missing folder yields an
// empty listing. walk supplies the extension sets and may be nil.
func Build(root string, walk *sorter.Result) (*Manifest, error) {
	m := &Manifest{
		Registered: walk.RegisteredExtensions(),
		Unknown:    walk.UnknownExtensions(),
		Sections:   make([]Section, 0, len(sectionOrder)),
	}
	for _, s := range sectionOrder {
		entries, err := listNames(filepath.Join(root, s.category.String()))
		if err != nil {
			return nil, faults.Wrap(faults.ErrFilesystem, "manifest", "list category folder", s.category.String(), err)
		}
		m.Sections = append(m.Sections, Section{Label: s.label, Category: s.category, Entries: entries})
	}
	return m, nil
}

func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Render produces the manifest text.
func (m *Manifest) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "All extensions: %s\n", formatSet(m.Registered))
	fmt.Fprintf(&b, "Unknown extensions: %s\n", formatSet(m.Unknown))
	for _, s := range m.Sections {
		fmt.Fprintf(&b, "%s: %s\n", s.Label, formatList(s.Entries))
	}
	return b.String()
}

// Write renders m to <root>/FilesList.txt, replacing any existing file.
func Write(root string, m *Manifest) (string, error) {
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(m.Render()), 0o644); err != nil {
		return "", faults.Wrap(faults.ErrFilesystem, "manifest", "write manifest", path, err)
	}
	return path, nil
}
