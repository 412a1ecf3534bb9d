package domain

// RecordKind discriminates the two spreadsheet record variants.
type RecordKind string

const (
	// KindPick marks records from pick-station productivity sheets.
	KindPick RecordKind = "pick"
	// KindPack marks records from pack-station productivity sheets.
	KindPack RecordKind = "pack"
)

// TotalsSentinel is the employee-cell value used by footer rows that carry
// grand totals. Rows with this exact trimmed value never become records.
const TotalsSentinel = "TOTALS"

// Record is the tagged union over PickRecord and PackRecord. Aggregators
// dispatch on the concrete type; the shared accessors cover the provenance
// fields both variants carry.
type Record interface {
	Kind() RecordKind
	EmployeeName() string
	WeekID() string
	SourceFile() string
}

// PickRecord is one employee's pick-station performance for one file/week.
// TotalPickTime is in hours; the source cell stores a fraction of a day and
// is scaled by 24 during parsing.
type PickRecord struct {
	ID               string  `json:"id" csv:"ID"`
	FileName         string  `json:"file_name" csv:"FileName"`
	Week             string  `json:"week,omitempty" csv:"Week"`
	Employee         string  `json:"employee" csv:"Employee"`
	TotalPicks       float64 `json:"total_picks" csv:"TotalPicks"`
	AvgPickTime      float64 `json:"avg_pick_time" csv:"AvgPickTime"`
	TotalItemsPicked float64 `json:"total_items_picked" csv:"TotalItemsPicked"`
	TotalBins        float64 `json:"total_bins" csv:"TotalBins"`
	AvgTimePerBin    float64 `json:"avg_time_per_bin" csv:"AvgTimePerBin"`
	AvgBinsPerPick   float64 `json:"avg_bins_per_pick" csv:"AvgBinsPerPick"`
	TotalOrders      float64 `json:"total_orders" csv:"TotalOrders"`
	AvgOrdersPerPick float64 `json:"avg_orders_per_pick" csv:"AvgOrdersPerPick"`
	TotalPickTime    float64 `json:"total_pick_time" csv:"TotalPickTime"`
	ItemsPerHour     float64 `json:"items_per_hour" csv:"ItemsPerHour"`
	BinsPerHour      float64 `json:"bins_per_hour" csv:"BinsPerHour"`
	AvgItemsPerBin   float64 `json:"avg_items_per_bin" csv:"AvgItemsPerBin"`
}

// Kind implements Record.
func (r PickRecord) Kind() RecordKind { return KindPick }

// EmployeeName implements Record.
func (r PickRecord) EmployeeName() string { return r.Employee }

// WeekID implements Record.
func (r PickRecord) WeekID() string { return r.Week }

// SourceFile implements Record.
func (r PickRecord) SourceFile() string { return r.FileName }

// PackRecord is one employee's pack-station performance for one file/week.
// TotalTime is in hours after the same day-fraction scaling as PickRecord.
type PackRecord struct {
	ID              string  `json:"id" csv:"ID"`
	FileName        string  `json:"file_name" csv:"FileName"`
	Week            string  `json:"week,omitempty" csv:"Week"`
	Employee        string  `json:"employee" csv:"Employee"`
	OrdersPerHour   float64 `json:"orders_per_hour" csv:"OrdersPerHour"`
	TotalPacks      float64 `json:"total_packs" csv:"TotalPacks"`
	TotalItems      float64 `json:"total_items" csv:"TotalItems"`
	TotalTime       float64 `json:"total_time" csv:"TotalTime"`
	AvgPackTime     float64 `json:"avg_pack_time" csv:"AvgPackTime"`
	AvgItemsPerPack float64 `json:"avg_items_per_pack" csv:"AvgItemsPerPack"`
}

// Kind implements Record.
func (r PackRecord) Kind() RecordKind { return KindPack }

// EmployeeName implements Record.
func (r PackRecord) EmployeeName() string { return r.Employee }

// WeekID implements Record.
func (r PackRecord) WeekID() string { return r.Week }

// SourceFile implements Record.
func (r PackRecord) SourceFile() string { return r.FileName }
