package catalog

import (
	"path"
	"path/filepath"
	"strings"
)

// extensions maps a file type to its canonical extension. Unknown types map
// to an empty extension.
var extensions = map[FileType]string{
	FileTypePDF: ".pdf",
	FileTypeDoc: ".doc",
	FileTypeMP3: ".mp3",
	FileTypeMP4: ".mp4",
	FileTypeImg: ".jpg",
}

// NormalizeFileType lowercases a user-supplied file type tag.
func NormalizeFileType(s string) FileType {
	return FileType(strings.ToLower(s))
}

// ExtensionFor returns the canonical extension for a file type, or "" when
// the type is unknown.
func ExtensionFor(fileType FileType) string {
	return extensions[fileType]
}

// NormalizeFileName derives a safe, extension-correct file name from a
// client-supplied name and a file type. Directory components and unsafe
// runes are stripped, and the extension is forced to the canonical one for
// the type (case-insensitive comparison). A name that sanitizes to nothing
// becomes "file". Pure function; unknown types degrade to no extension.
func NormalizeFileName(name string, fileType FileType) string {
	safe := sanitizeFileName(name)

	ext := strings.ToLower(filepath.Ext(safe))
	canonical := ExtensionFor(fileType)
	if ext == canonical {
		return safe
	}

	base := strings.TrimSuffix(safe, filepath.Ext(safe))
	if base == "" {
		base = "file"
	}
	return base + canonical
}

// sanitizeFileName collapses a file name to a filesystem-safe ASCII token:
// path components are stripped, spaces become underscores, and anything else
// outside [A-Za-z0-9._-] is dropped.
func sanitizeFileName(name string) string {
	// Strip directory components, both separators.
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return "file"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			// Drop anything else, including control and non-ASCII runes.
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
