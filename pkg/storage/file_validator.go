package storage

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// Policy restricts what an upload slot accepts.
type Policy struct {
	Name       string
	MaxBytes   int
	Extensions map[string]bool
}

var (
	ResumePolicy = Policy{
		Name:       "resume",
		MaxBytes:   5 << 20,
		Extensions: map[string]bool{".pdf": true, ".doc": true, ".docx": true},
	}
	LogoPolicy = Policy{
		Name:       "logo",
		MaxBytes:   2 << 20,
		Extensions: map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true},
	}
)

// Magic byte signatures keyed by lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}},
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type ValidatedFile struct {
	Extension   string
	ContentType string
}

// Validate checks size, extension whitelist and that the content matches
// the extension.
func (p Policy) Validate(filename string, data []byte) (*ValidatedFile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s file is empty", p.Name)
	}
	if len(data) > p.MaxBytes {
		return nil, fmt.Errorf("%s file exceeds %d MB", p.Name, p.MaxBytes>>20)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !p.Extensions[ext] {
		return nil, fmt.Errorf("%s file extension not allowed: %q", p.Name, ext)
	}
	if !hasMagic(ext, data) {
		return nil, fmt.Errorf("%s file content does not match extension", p.Name)
	}
	detected := http.DetectContentType(data)
	if strings.HasPrefix(contentTypes[ext], "image/") && detected != contentTypes[ext] {
		return nil, fmt.Errorf("%s file type not allowed: %s", p.Name, detected)
	}
	return &ValidatedFile{Extension: ext, ContentType: contentTypes[ext]}, nil
}

func hasMagic(ext string, data []byte) bool {
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
