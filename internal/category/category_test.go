package category

import (
	"strings"
	"testing"
)

func TestExtensionOf(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":      "JPG",
		"Photo.JPeG":     "JPEG",
		"archive.tar.gz": "GZ",
		"notes":          "",
		".bashrc":        "",
		"report.":        "",
		"a.b.c":          "C",
		".config.toml":   "TOML",
		"файл.пдф":       "ПДФ",
	}
	for in, want := range tests {
		if got := ExtensionOf(in); got != want {
			t.Fatalf("ExtensionOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTableIsDisjoint(t *testing.T) {
	seen := map[string]Category{}
	for _, e := range table {
		for _, ext := range e.extensions {
			if ext != strings.ToUpper(ext) {
				t.Fatalf("extension %q in %s is not uppercase", ext, e.category)
			}
			if owner, ok := seen[ext]; ok {
				t.Fatalf("extension %s in both %s and %s", ext, owner, e.category)
			}
			seen[ext] = e.category
		}
	}
	if _, err := NewRegistry(); err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
}

func TestNewRegistryRejectsOverlap(t *testing.T) {
	_, err := newRegistry([]entry{
		{Images, []string{"PNG"}},
		{Documents, []string{"png"}},
	})
	if err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestClassify(t *testing.T) {
	r := MustRegistry()
	tests := []struct {
		name      string
		want      Category
		wantExt   string
		wantKnown bool
	}{
		{"a.jpg", Images, "JPG", true},
		{"a.SVG", Images, "SVG", true},
		{"report.docx", Documents, "DOCX", true},
		{"song.mp3", Audio, "MP3", true},
		{"clip.mkv", Video, "MKV", true},
		{"data.zip", Archives, "ZIP", true},
		{"backup.tar.gz", Archives, "GZ", true},
		{"notes", Others, "", false},
		{"script.py", Others, "PY", false},
	}
	for _, tt := range tests {
		c, ext, known := r.Classify(tt.name)
		if c != tt.want || ext != tt.wantExt || known != tt.wantKnown {
			t.Fatalf("Classify(%q) = (%s, %q, %v), want (%s, %q, %v)", tt.name, c, ext, known, tt.want, tt.wantExt, tt.wantKnown)
		}
	}
}

func TestIsReserved(t *testing.T) {
	for _, c := range All {
		if !IsReserved(string(c)) {
			t.Fatalf("%s should be reserved", c)
		}
	}
	for _, name := range []string{"Documents", "image", "misc", ""} {
		if IsReserved(name) {
			t.Fatalf("%q should not be reserved", name)
		}
	}
}

func TestTableCatchAllsAreAbsent(t *testing.T) {
	for _, e := range table {
		if e.category == Folders || e.category == Others {
			t.Fatalf("catch-all %s must not carry extensions", e.category)
		}
		if e.category == Archives && strings.Join(e.extensions, ",") != "ZIP,GZ,TAR" {
			t.Fatalf("unexpected archive extensions: %v", e.extensions)
		}
	}
}
