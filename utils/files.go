package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRoot returns the base directory for stored files.
func UploadRoot() string {
	if root := os.Getenv("UPLOAD_PATH"); root != "" {
		return root
	}
	return "./uploads"
}

// SanitizeFilename strips path separators and control characters so a
// client-supplied name cannot escape its folder.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 32, r == '/', r == '\\', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// GenerateUniqueFilename returns a name that does not collide with an
// existing file in dir, suffixing a short random id when needed.
func GenerateUniqueFilename(dir, original string) string {
	name := SanitizeFilename(original)
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)
}
