package testkit

import (
	"fmt"
	"math/rand"

	"surveyclean/domain/table"
)

// SurveyGeneratorConfig configures the synthetic survey generator
type SurveyGeneratorConfig struct {
	Sheets          []string `json:"sheets"`
	RowsPerSheet    int      `json:"rows_per_sheet"`
	MissingRate     float64  `json:"missing_rate"`      // chance any policy cell is left empty
	GarbageRate     float64  `json:"garbage_rate"`      // chance a salary is unparseable text
	DuplicateRate   float64  `json:"duplicate_rate"`    // chance a row repeats the previous one
	NonPositiveRate float64  `json:"non_positive_rate"` // chance a daily salary is <= 0
	Seed            int64    `json:"seed"`
}

// DefaultSurveyConfig returns a small, messy survey
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Sheets:          []string{"2022", "2023", "2024"},
		RowsPerSheet:    200,
		MissingRate:     0.1,
		GarbageRate:     0.05,
		DuplicateRate:   0.05,
		NonPositiveRate: 0.05,
		Seed:            42,
	}
}

// SurveyGenerator produces deterministic messy survey workbooks
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a generator seeded from the config
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	sectors   = []string{"Tecnología", "COMERCIO", "Salud", "Educación", "Manufactura"}
	answers   = []string{"Buen ambiente", "Poca capacitación", "Horario flexible", "Sin comentarios"}
	companies = []string{"Acme", "Globex", "Initech", "Umbrella", "  Hooli  ", "nan", ""}
)

// FullColumnWorkbook generates sheets with salario, pregunta_abierta_1 and sector_empresa
// plus an unrelated id column
func (g *SurveyGenerator) FullColumnWorkbook() *table.Workbook {
	wb := &table.Workbook{}
	for _, name := range g.config.Sheets {
		tb := table.New("id", "salario", "pregunta_abierta_1", "sector_empresa")
		var prev []table.Value
		for i := 0; i < g.config.RowsPerSheet; i++ {
			if prev != nil && g.rng.Float64() < g.config.DuplicateRate {
				_ = tb.AppendRow(prev...)
				continue
			}
			row := []table.Value{
				table.NewStringValue(fmt.Sprintf("%s-%04d", name, i)),
				g.salary(1000, 9000),
				g.maybe(table.NewStringValue(answers[g.rng.Intn(len(answers))])),
				g.maybe(table.NewStringValue(sectors[g.rng.Intn(len(sectors))])),
			}
			_ = tb.AppendRow(row...)
			prev = row
		}
		wb.Sheets = append(wb.Sheets, table.Sheet{Name: name, Table: tb})
	}
	return wb
}

// PositionalWorkbook generates positional sheets: company at 0, four daily salaries at 1..4
func (g *SurveyGenerator) PositionalWorkbook() *table.Workbook {
	wb := &table.Workbook{}
	for _, name := range g.config.Sheets {
		tb := table.New("0", "1", "2", "3", "4")
		var prev []table.Value
		for i := 0; i < g.config.RowsPerSheet; i++ {
			if prev != nil && g.rng.Float64() < g.config.DuplicateRate {
				_ = tb.AppendRow(prev...)
				continue
			}
			row := []table.Value{g.maybe(table.NewStringValue(companies[g.rng.Intn(len(companies))]))}
			for j := 0; j < 4; j++ {
				row = append(row, g.salary(50, 600))
			}
			_ = tb.AppendRow(row...)
			prev = row
		}
		wb.Sheets = append(wb.Sheets, table.Sheet{Name: name, Table: tb})
	}
	return wb
}

func (g *SurveyGenerator) salary(min, max int) table.Value {
	roll := g.rng.Float64()
	switch {
	case roll < g.config.MissingRate:
		return table.NewMissingValue()
	case roll < g.config.MissingRate+g.config.GarbageRate:
		return table.NewStringValue("no sabe")
	case roll < g.config.MissingRate+g.config.GarbageRate+g.config.NonPositiveRate:
		return table.NewNumericValue(-float64(g.rng.Intn(10)))
	}
	n := float64(min + g.rng.Intn(max-min))
	if g.rng.Float64() < 0.2 {
		// salaries typed as text in the source sheet
		return table.NewStringValue(fmt.Sprintf("%.0f", n))
	}
	return table.NewNumericValue(n)
}

func (g *SurveyGenerator) maybe(v table.Value) table.Value {
	if g.rng.Float64() < g.config.MissingRate {
		return table.NewMissingValue()
	}
	return v
}
