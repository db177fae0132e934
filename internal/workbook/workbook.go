// Package workbook loads the five-sheet Excel input (Clients,
// Products, Policies, SalesReps, CommissionRules) into the pipeline's
// table snapshot. Missing required sheets and empty Clients/Products
// sheets are hard errors; individual malformed rows are skipped with a
// warning so one bad cell never sinks an upload.
package workbook

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/insureco/advisor-cli/internal/model"
)

// Sheet names required in every workbook.
var requiredSheets = []string{"Clients", "Products", "Policies", "SalesReps", "CommissionRules"}

// Load opens an XLSX workbook and parses it into a table snapshot.
func Load(path string) (*model.Tables, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: open file")
	}
	return Parse(f)
}

// Parse converts an open workbook into a table snapshot.
func Parse(f *xlsx.File) (*model.Tables, error) {
	var missing []string
	for _, name := range requiredSheets {
		if _, ok := f.Sheet[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("workbook: missing required sheets: %s", strings.Join(missing, ", "))
	}

	tables := &model.Tables{
		Clients:         parseClients(sheetRecords(f.Sheet["Clients"])),
		Products:        parseProducts(sheetRecords(f.Sheet["Products"])),
		Policies:        parsePolicies(sheetRecords(f.Sheet["Policies"])),
		SalesReps:       parseSalesReps(sheetRecords(f.Sheet["SalesReps"])),
		CommissionRules: parseCommissionRules(sheetRecords(f.Sheet["CommissionRules"])),
	}

	if len(tables.Clients) == 0 {
		return nil, eris.New("workbook: Clients sheet is empty")
	}
	if len(tables.Products) == 0 {
		return nil, eris.New("workbook: Products sheet is empty")
	}

	return tables, nil
}

// sheetRecords maps each data row to a header-keyed record. The first
// row is the header; trailing blank rows are dropped.
func sheetRecords(sheet *xlsx.Sheet) []map[string]string {
	if len(sheet.Rows) < 2 {
		return nil
	}

	headers := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		headers[i] = strings.TrimSpace(cell.String())
	}

	var records []map[string]string
	for _, row := range sheet.Rows[1:] {
		record := make(map[string]string, len(headers))
		empty := true
		for i, cell := range row.Cells {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell.String())
			if value != "" {
				empty = false
			}
			record[headers[i]] = value
		}
		if !empty {
			records = append(records, record)
		}
	}
	return records
}
