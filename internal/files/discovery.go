// Package files locates the survey workbook on disk.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"surveyclean/domain/core"
)

// SpreadsheetExtensions are the extensions accepted by the fallback search
var SpreadsheetExtensions = []string{".xls", ".xlsx", ".xlsm", ".xlsb"}

// Discovery finds the input workbook inside a data directory
type Discovery struct {
	dataDir     string
	primaryFile string
}

// NewDiscovery creates a discovery over dataDir preferring primaryFile
func NewDiscovery(dataDir, primaryFile string) *Discovery {
	return &Discovery{dataDir: dataDir, primaryFile: primaryFile}
}

// Locate returns the primary file when it exists, otherwise the first spreadsheet of the
// data directory by name. Fails with core.ErrFileNotFound listing what the directory holds.
func (d *Discovery) Locate() (string, error) {
	if d.primaryFile != "" {
		primary := filepath.Join(d.dataDir, d.primaryFile)
		if info, err := os.Stat(primary); err == nil && !info.IsDir() {
			return primary, nil
		}
	}

	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return "", core.NewFileNotFoundError(fmt.Sprintf("data directory %s cannot be read: %v", d.dataDir, err))
	}

	spreadsheets := FindSpreadsheets(entries)
	if len(spreadsheets) == 0 {
		return "", core.NewFileNotFoundError(fmt.Sprintf("no spreadsheet in %s (contents: %s)", d.dataDir, listing(entries)))
	}
	return filepath.Join(d.dataDir, spreadsheets[0]), nil
}

// FindSpreadsheets returns the names of regular files with a spreadsheet extension, sorted
func FindSpreadsheets(entries []os.DirEntry) []string {
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSpreadsheet(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// IsSpreadsheet reports whether name has a spreadsheet extension, ignoring case
func IsSpreadsheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SpreadsheetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func listing(entries []os.DirEntry) string {
	if len(entries) == 0 {
		return "empty"
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return strings.Join(names, ", ")
}
