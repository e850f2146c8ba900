// Package category maps file extensions to the folders files are sorted into.
package category

import (
	"fmt"
	"strings"

	"github.com/babarot/dlsort/internal/utils/fs"
)

// Category is the label of a sort folder
type Category string

const (
	Images       Category = "Images"
	Documents    Category = "Documents"
	Spreadsheets Category = "Spreadsheets"
	Slides       Category = "Slides"
	Audio        Category = "Audio"
	Video        Category = "Video"
	Archives     Category = "Archives"
	Installers   Category = "Installers"
	Code         Category = "Code"
	Other        Category = "Other"
)

func (c Category) String() string {
	return string(c)
}

// Entry binds a category to the extensions it owns.
// Extensions are lower-case and include the leading dot.
type Entry struct {
	Category   Category
	Extensions []string
}

// Table is an immutable extension lookup. The zero value classifies
// everything as Other.
type Table struct {
	order []Category
	exts  map[Category]map[string]struct{}
}

var defaultEntries = []Entry{
	{Images, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".heic", ".svg"}},
	{Documents, []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".md"}},
	{Spreadsheets, []string{".xls", ".xlsx", ".csv", ".tsv", ".ods"}},
	{Slides, []string{".ppt", ".pptx", ".key"}},
	{Audio, []string{".mp3", ".wav", ".m4a", ".aac", ".flac", ".ogg"}},
	{Video, []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".m4v"}},
	{Archives, []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{Installers, []string{".exe", ".msi", ".msix"}},
	{Code, []string{
		".py", ".ipynb", ".java", ".c", ".cpp", ".h", ".hpp", ".js", ".ts",
		".html", ".css", ".json", ".xml", ".yml", ".yaml", ".sql", ".sh", ".bat", ".ps1",
	}},
}

// DefaultTable returns the built-in table
func DefaultTable() Table {
	t, err := NewTable(defaultEntries)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable builds a table from entries in the given order. Other is the
// fallback and cannot own extensions.
func NewTable(entries []Entry) (Table, error) {
	t := Table{
		exts: make(map[Category]map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if e.Category == Other {
			return Table{}, fmt.Errorf("category %q is the fallback and cannot own extensions", Other)
		}
		if _, dup := t.exts[e.Category]; dup {
			return Table{}, fmt.Errorf("category %q is listed twice", e.Category)
		}
		set := make(map[string]struct{}, len(e.Extensions))
		for _, ext := range e.Extensions {
			set[ext] = struct{}{}
		}
		t.order = append(t.order, e.Category)
		t.exts[e.Category] = set
	}
	return t, nil
}

// For returns the category owning ext. ext must already be normalized
// (see Ext); anything unknown, including "", is Other.
func (t Table) For(ext string) Category {
	for _, c := range t.order {
		if _, ok := t.exts[c][ext]; ok {
			return c
		}
	}
	return Other
}

// Classify returns the category of a file name
func (t Table) Classify(name string) Category {
	return t.For(Ext(name))
}

// Categories returns every sort folder in lookup order, Other last.
func (t Table) Categories() []Category {
	cats := make([]Category, 0, len(t.order)+1)
	cats = append(cats, t.order...)
	return append(cats, Other)
}

// Ext returns the lower-cased extension of a file name including the dot.
func Ext(name string) string {
	_, ext := fs.SplitExt(name)
	return strings.ToLower(ext)
}
