package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/zonemesh/internal/model"
)

// SheetName is the worksheet holding one row per zone.
const SheetName = "zones"

// Workbook builds an XLSX file with a header row and one row per zone.
func Workbook(zones []model.Zone) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range Header() {
		header.AddCell().SetString(name)
	}

	for i := range zones {
		z := &zones[i]
		row := sheet.AddRow()
		for _, c := range columns {
			cell := row.AddCell()
			switch v := c.value(z).(type) {
			case string:
				cell.SetString(v)
			case int:
				cell.SetInt(v)
			case float64:
				cell.SetFloat(v)
			}
		}
	}
	return f, nil
}

// WriteXLSX saves zones as a workbook at path.
func WriteXLSX(path string, zones []model.Zone) error {
	f, err := Workbook(zones)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
