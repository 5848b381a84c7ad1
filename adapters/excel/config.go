package excel

// ReaderConfig holds configuration for reading workbooks
type ReaderConfig struct {
	TrimHeaders  bool `json:"trim_headers"`  // strip surrounding whitespace from header names
	NumericCells bool `json:"numeric_cells"` // numeric cells become numeric values instead of text
}

// DefaultReaderConfig returns sensible defaults for survey workbooks
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		TrimHeaders:  true,
		NumericCells: true,
	}
}
