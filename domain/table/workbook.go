package table

// Sheet is one named table of a workbook
type Sheet struct {
	Name  string
	Table *Table
}

// Workbook holds the sheets of one spreadsheet file in workbook order
type Workbook struct {
	Path   string
	Sheets []Sheet
}

// SheetNames returns the sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// TotalRows sums the row counts of every sheet
func (w *Workbook) TotalRows() int {
	total := 0
	for _, s := range w.Sheets {
		total += s.Table.Len()
	}
	return total
}
