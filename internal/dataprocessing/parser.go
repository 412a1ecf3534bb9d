package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "pickpulse/internal/errors"
	"pickpulse/pkg/contracts/domain"
)

// Source grid layout shared by pick and pack sheets: row 0 is the report
// title, row 1 the column headers, data starts at row 2.
const dataStartRow = 2

// weekPattern matches a trailing numeric segment immediately before the
// spreadsheet extension, e.g. "pick stats 17.xlsx" -> week "17".
var weekPattern = regexp.MustCompile(`(\d+)\.xlsx?$`)

// The export tool behind the source sheets stores the two total-time columns
// as fractions of a 24 hour day.
const hoursPerDay = 24

// Parser converts raw spreadsheet grids into typed pick/pack records.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "parser"))}
}

// ParsedFile holds one file's parsed records together with its provenance.
type ParsedFile struct {
	FileName string          `json:"file_name"`
	Records  []domain.Record `json:"records"`
}

// ParseGrid converts a decoded cell grid into typed records. It never fails:
// unrecognized file types and grids that are too short yield an empty slice,
// malformed numeric cells coerce to zero, and footer/empty rows are skipped.
//
// The record kind is taken from declared when set; otherwise it is inferred
// from a case-insensitive "pick"/"pack" substring of the file name.
func (p *Parser) ParseGrid(grid [][]string, fileName string, declared domain.RecordKind) []domain.Record {
	// Title row, header row and at least one data row are required.
	if len(grid) < dataStartRow+1 {
		return []domain.Record{}
	}

	kind := declared
	if kind == "" {
		kind = inferKind(fileName)
	}
	if kind != domain.KindPick && kind != domain.KindPack {
		p.logger.Warn("could not determine file type",
			slog.String("file_name", fileName))
		return []domain.Record{}
	}

	week := weekFromFileName(fileName)

	if kind == domain.KindPick {
		return p.parsePickRows(grid, fileName, week)
	}
	return p.parsePackRows(grid, fileName, week)
}

// ParseWorkbook decodes a spreadsheet from r and parses its first sheet.
// A decode failure is the only error path; it is surfaced as a single
// parsing error wrapping the underlying cause.
func (p *Parser) ParseWorkbook(r io.Reader, fileName string, declared domain.RecordKind) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to decode spreadsheet %s", fileName), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("spreadsheet %s contains no sheets", fileName), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read sheet %s of %s", sheets[0], fileName), err)
	}

	records := p.ParseGrid(rows, fileName, declared)

	p.logger.Info("parsed workbook",
		slog.String("file_name", fileName),
		slog.String("sheet", sheets[0]),
		slog.Int("row_count", len(rows)),
		slog.Int("record_count", len(records)))

	return records, nil
}

// parsePickRows reads pick-station rows. Employee names live in column 0.
func (p *Parser) parsePickRows(grid [][]string, fileName, week string) []domain.Record {
	records := make([]domain.Record, 0, len(grid)-dataStartRow)

	for i := dataStartRow; i < len(grid); i++ {
		row := grid[i]

		employee := strings.TrimSpace(cell(row, 0))
		if employee == "" || employee == domain.TotalsSentinel {
			continue
		}

		records = append(records, domain.PickRecord{
			ID:               recordID(fileName, employee, i),
			FileName:         fileName,
			Week:             week,
			Employee:         employee,
			TotalPicks:       parseNumber(cell(row, 1)),
			AvgPickTime:      parseNumber(cell(row, 2)),
			TotalItemsPicked: parseNumber(cell(row, 3)),
			TotalBins:        parseNumber(cell(row, 4)),
			AvgTimePerBin:    parseNumber(cell(row, 5)),
			AvgBinsPerPick:   parseNumber(cell(row, 6)),
			TotalOrders:      parseNumber(cell(row, 7)),
			AvgOrdersPerPick: parseNumber(cell(row, 8)),
			TotalPickTime:    parseNumber(cell(row, 9)) * hoursPerDay,
			ItemsPerHour:     parseNumber(cell(row, 10)),
			BinsPerHour:      parseNumber(cell(row, 11)),
			AvgItemsPerBin:   parseNumber(cell(row, 12)),
		})
	}

	return records
}

// parsePackRows reads pack-station rows. Employee names live in column 1;
// the first column carries the orders-per-hour metric. This asymmetry is a
// fixed contract of the source sheet layout.
func (p *Parser) parsePackRows(grid [][]string, fileName, week string) []domain.Record {
	records := make([]domain.Record, 0, len(grid)-dataStartRow)

	for i := dataStartRow; i < len(grid); i++ {
		row := grid[i]

		employee := strings.TrimSpace(cell(row, 1))
		if employee == "" || employee == domain.TotalsSentinel {
			continue
		}

		records = append(records, domain.PackRecord{
			ID:              recordID(fileName, employee, i),
			FileName:        fileName,
			Week:            week,
			Employee:        employee,
			OrdersPerHour:   parseNumber(cell(row, 0)),
			TotalPacks:      parseNumber(cell(row, 2)),
			TotalItems:      parseNumber(cell(row, 3)),
			TotalTime:       parseNumber(cell(row, 4)) * hoursPerDay,
			AvgPackTime:     parseNumber(cell(row, 5)),
			AvgItemsPerPack: parseNumber(cell(row, 6)),
		})
	}

	return records
}

// inferKind sniffs the record kind from the file name. Inference is purely
// name based, never content based; "pick" wins when both substrings occur.
func inferKind(fileName string) domain.RecordKind {
	lower := strings.ToLower(fileName)
	switch {
	case strings.Contains(lower, "pick"):
		return domain.KindPick
	case strings.Contains(lower, "pack"):
		return domain.KindPack
	default:
		return ""
	}
}

// weekFromFileName extracts the optional week identifier from the file name.
// Absence of a trailing numeric segment leaves the week empty.
func weekFromFileName(fileName string) string {
	m := weekPattern.FindStringSubmatch(fileName)
	if m == nil {
		return ""
	}
	return m[1]
}

// recordID builds a per-file unique id. The row index keeps ids distinct even
// when one employee appears on multiple rows of the same sheet.
func recordID(fileName, employee string, rowIndex int) string {
	return fmt.Sprintf("%s-%s-%d", fileName, employee, rowIndex)
}

// cell returns the value at idx or an empty string for short rows.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumber coerces a raw cell to a float, defaulting to zero on malformed
// input. Thousands separators are tolerated the way the sheets emit them.
func parseNumber(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
