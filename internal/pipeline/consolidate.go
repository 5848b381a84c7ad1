package pipeline

import (
	"fmt"

	"surveyclean/domain/core"
	"surveyclean/domain/policy"
	"surveyclean/domain/table"
)

// ConsolidateFull row-concatenates every sheet, keeping all of its columns and tagging each
// row with the sheet name in policy.ProvenanceColumn. Sheets with different columns are
// combined over the union of their columns; cells a sheet lacks are missing.
// A sheet that already has a provenance column has it overwritten.
func ConsolidateFull(wb *table.Workbook) (*table.Table, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, core.ErrEmptyInput
	}

	tagged := make([]*table.Table, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		if sheet.Table == nil {
			return nil, core.NewSchemaMismatchError(sheet.Name, "sheet has no table")
		}
		tb := sheet.Table.Clone()
		if err := tagProvenance(tb, sheet.Name); err != nil {
			return nil, err
		}
		tagged = append(tagged, tb)
	}
	return table.Concat(tagged...), nil
}

func tagProvenance(tb *table.Table, sheetName string) error {
	tag := table.NewStringValue(sheetName)
	if !tb.Has(policy.ProvenanceColumn) {
		return tb.AddColumn(policy.ProvenanceColumn, tag)
	}
	_, err := tb.MapColumn(policy.ProvenanceColumn, func(table.Value) table.Value { return tag })
	return err
}

// ConsolidateSelected picks the selection's positions from every sheet, renames them to the
// selection labels and tags rows with the sheet name. Sheets must already have their
// leading rows skipped. If any sheet is too narrow nothing is consolidated: the result is
// an empty table with the selected columns and an ErrColumnSelection error.
func ConsolidateSelected(wb *table.Workbook, sel policy.Selection) (*table.Table, error) {
	if err := sel.Validate(); err != nil {
		return EmptySelected(sel), fmt.Errorf("invalid selection: %w", err)
	}
	if wb == nil || len(wb.Sheets) == 0 {
		return EmptySelected(sel), core.ErrEmptyInput
	}

	required := sel.MaxPosition()
	for _, sheet := range wb.Sheets {
		width := 0
		if sheet.Table != nil {
			width = sheet.Table.Width()
		}
		if width <= required {
			return EmptySelected(sel), core.NewColumnSelectionError(sheet.Name, width, required)
		}
	}

	positions := sel.Positions()
	selected := make([]*table.Table, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		tb := table.New(append(sel.Labels(), policy.ProvenanceColumn)...)
		tag := table.NewStringValue(sheet.Name)
		for i := 0; i < sheet.Table.Len(); i++ {
			src := sheet.Table.Row(i)
			row := make([]table.Value, 0, len(positions)+1)
			for _, p := range positions {
				row = append(row, src[p])
			}
			row = append(row, tag)
			if err := tb.AppendRow(row...); err != nil {
				return EmptySelected(sel), err
			}
		}
		selected = append(selected, tb)
	}
	return table.Concat(selected...), nil
}

// EmptySelected is the zero-row result of a selective run
func EmptySelected(sel policy.Selection) *table.Table {
	return table.New(append(sel.Labels(), policy.ProvenanceColumn)...)
}
