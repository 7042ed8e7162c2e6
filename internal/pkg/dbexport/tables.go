package dbexport

import "github.com/tahlil-one/tahlil/app/models"

// Table is one exported collection. New returns a pointer to an empty slice of its model.
type Table struct {
	Name string
	New  func() interface{}
}

// FileName is the JSON file of the table inside an export directory.
func (t Table) FileName() string {
	return t.Name + ".json"
}

// Tables lists the collections in dependency order, parents first.
var Tables = []Table{
	{Name: "users", New: func() interface{} { return &[]models.User{} }},
	{Name: "markets", New: func() interface{} { return &[]models.Market{} }},
	{Name: "assets", New: func() interface{} { return &[]models.Asset{} }},
	{Name: "analyses", New: func() interface{} { return &[]models.Analysis{} }},
	{Name: "daily_analysis", New: func() interface{} { return &[]models.DailyAnalysis{} }},
	{Name: "forecast_history", New: func() interface{} { return &[]models.ForecastRecord{} }},
}

// FileNames returns the file name of every table.
func FileNames() []string {
	names := make([]string, 0, len(Tables))
	for _, t := range Tables {
		names = append(names, t.FileName())
	}
	return names
}
