package pagelens

import (
	"os"
	"path/filepath"
	"strings"
)

// CompanionPDF locates the source PDF belonging to an analysis file.
// It prefers a PDF with the same base name in the same directory, then
// falls back to the directory's sole PDF. An empty string means no
// companion was found; rendering is simply skipped in that case.
func CompanionPDF(analysisPath string) string {
	dir := filepath.Dir(analysisPath)
	base := strings.TrimSuffix(filepath.Base(analysisPath), filepath.Ext(analysisPath))

	candidate := filepath.Join(dir, base+".pdf")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var sole string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			if sole != "" {
				// Ambiguous: more than one PDF in the directory.
				return ""
			}
			sole = filepath.Join(dir, e.Name())
		}
	}
	return sole
}
