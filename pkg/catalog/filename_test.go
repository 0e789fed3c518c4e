package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fileType FileType
		want     string
	}{
		{
			name:     "extension already canonical",
			input:    "lecture-notes.pdf",
			fileType: FileTypePDF,
			want:     "lecture-notes.pdf",
		},
		{
			name:     "uppercase extension is accepted",
			input:    "Lecture.PDF",
			fileType: FileTypePDF,
			want:     "Lecture.PDF",
		},
		{
			name:     "wrong extension is replaced",
			input:    "notes.txt",
			fileType: FileTypePDF,
			want:     "notes.pdf",
		},
		{
			name:     "missing extension is appended",
			input:    "notes",
			fileType: FileTypeDoc,
			want:     "notes.doc",
		},
		{
			name:     "img maps to jpg",
			input:    "diagram.png",
			fileType: FileTypeImg,
			want:     "diagram.jpg",
		},
		{
			name:     "unknown type degrades to no extension",
			input:    "notes.txt",
			fileType: FileType("zip"),
			want:     "notes",
		},
		{
			name:     "path components are stripped",
			input:    "../../etc/passwd",
			fileType: FileTypePDF,
			want:     "passwd.pdf",
		},
		{
			name:     "windows path components are stripped",
			input:    `C:\Users\me\song.mp3`,
			fileType: FileTypeMP3,
			want:     "song.mp3",
		},
		{
			name:     "unsafe characters are dropped, spaces become underscores",
			input:    "my notes (final)!.pdf",
			fileType: FileTypePDF,
			want:     "my_notes_final.pdf",
		},
		{
			name:     "empty name falls back to file",
			input:    "",
			fileType: FileTypeMP4,
			want:     "file.mp4",
		},
		{
			name:     "name that sanitizes to nothing falls back to file",
			input:    "????",
			fileType: FileTypePDF,
			want:     "file.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFileName(tt.input, tt.fileType)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, "\\")
		})
	}
}

func TestNormalizeFileNameExtensionInvariant(t *testing.T) {
	names := []string{"a.pdf", "b.MP3", "weird..name", "dir/inner", "", "x.y.z"}
	types := []FileType{FileTypePDF, FileTypeDoc, FileTypeMP3, FileTypeMP4, FileTypeImg, FileType("unknown")}

	for _, name := range names {
		for _, fileType := range types {
			got := NormalizeFileName(name, fileType)
			want := ExtensionFor(fileType)
			if want == "" {
				continue
			}
			assert.Truef(t, strings.HasSuffix(strings.ToLower(got), want),
				"normalize(%q, %q) = %q, want suffix %q", name, fileType, got, want)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".pdf", ExtensionFor(FileTypePDF))
	assert.Equal(t, ".doc", ExtensionFor(FileTypeDoc))
	assert.Equal(t, ".mp3", ExtensionFor(FileTypeMP3))
	assert.Equal(t, ".mp4", ExtensionFor(FileTypeMP4))
	assert.Equal(t, ".jpg", ExtensionFor(FileTypeImg))
	assert.Equal(t, "", ExtensionFor(FileType("csv")))
}

func TestNormalizeFileType(t *testing.T) {
	assert.Equal(t, FileTypePDF, NormalizeFileType("PDF"))
	assert.Equal(t, FileTypeImg, NormalizeFileType("Img"))
}
