package textutil

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "cyrillic base", in: "Фото.jpg", want: "Foto.jpg"},
		{name: "spaces and mixed case", in: "Привіт світ.txt", want: "Pryvit_svit.txt"},
		{name: "uppercase multi-letter romanization", in: "Щука.mp3", want: "SCHuka.mp3"},
		{name: "uppercase je", in: "Єнот.png", want: "JEnot.png"},
		{name: "soft sign elided", in: "сіль.doc", want: "sil.doc"},
		{name: "multi dot extension untouched", in: "archive.tar.gz", want: "archive.tar.gz"},
		{name: "extension keeps its characters", in: "файл.Тест", want: "fajl.Тест"},
		{name: "no extension has no trailing dot", in: "notes", want: "notes"},
		{name: "dotfile", in: ".bashrc", want: ".bashrc"},
		{name: "punctuation", in: "hello world!.txt", want: "hello_world_.txt"},
		{name: "letters outside the alphabet kept", in: "ёж.txt", want: "ёzh.txt"},
		{name: "latin accent kept", in: "café.jpg", want: "café.jpg"},
		{name: "sharp s kept", in: "Straße.pdf", want: "Straße.pdf"},
		{name: "accents kept space replaced", in: "résumé v2.doc", want: "résumé_v2.doc"},
		{name: "cjk kept", in: "日本語.txt", want: "日本語.txt"},
		{name: "other numbers kept", in: "½ cup.txt", want: "½_cup.txt"},
		{name: "uncomposable combining mark", in: "x\u0301y.txt", want: "x_y.txt"},
		{name: "symbols replaced", in: "a€b©.txt", want: "a_b_.txt"},
		{name: "decomposed input", in: "\u0438\u0306ога.txt", want: "joga.txt"},
		{name: "empty", in: "", want: ""},
		{name: "trailing dot kept", in: "report.", want: "report."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Фото.jpg", "Привіт світ.txt", "notes", ".bashrc", "a b.c d",
		"Щ-Ю-Я!.tar.gz", "ёж", "日本語.txt", "x..y", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeAlphabetOutputIsASCII(t *testing.T) {
	letters := []rune(ukrainianAlphabet + strings.ToUpper(ukrainianAlphabet) + ".")
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := rng.Intn(16)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = letters[rng.Intn(len(letters))]
		}
		in := string(runes)
		base, _, _ := strings.Cut(Normalize(in), ".")
		for _, r := range base {
			if r > unicode.MaxASCII || !isWordRune(r) {
				t.Fatalf("Normalize(%q) base contains %q", in, r)
			}
		}
	}
}

func TestTransliterationTableCoversBothCases(t *testing.T) {
	if got := len(transliteration); got != 64 {
		t.Fatalf("expected 64 entries, got %d", got)
	}
	if transliteration['ь'] != "" || transliteration['Ь'] != "" {
		t.Fatal("soft sign should map to empty string")
	}
	if got := transliteration['Ж']; got != "ZH" {
		t.Fatalf("Ж = %q, want ZH", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"":              "unknown",
		"  ":            "unknown",
		"Downloads":     "downloads",
		"My Files (1)":  "my_files__1",
		"--__--":        "unknown",
		"photos-2024_b": "photos-2024_b",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
