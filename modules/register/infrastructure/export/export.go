// Package export renders a built register into its filing formats.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/iota-uz/dora-register/modules/register/domain/roi"
	"github.com/iota-uz/dora-register/pkg/excel"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func (f Format) Valid() bool {
	return f == FormatXLSX || f == FormatCSV
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/zip"
}

// Filename names the download after the reference date.
func (f Format) Filename(reg roi.Register) string {
	ext := "xlsx"
	if f == FormatCSV {
		ext = "zip"
	}
	return fmt.Sprintf("register-of-information-%s.%s", reg.ReferenceDate.Format("2006-01-02"), ext)
}

// Render encodes reg in format f.
func Render(ctx context.Context, f Format, reg roi.Register) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return XLSX(ctx, reg)
	case FormatCSV:
		return CSV(reg)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// XLSX writes one sheet per template with the ESA column codes as header.
func XLSX(ctx context.Context, reg roi.Register) ([]byte, error) {
	sources := make([]excel.DataSource, 0, len(reg.Sheets))
	for _, s := range reg.Sheets {
		sources = append(sources, excel.NewSliceDataSource(headers(s), cells(s)).WithSheetName(string(s.Template)))
	}
	opts := excel.DefaultExportOptions()
	opts.AutoFilter = true
	style := excel.DefaultStyleOptions()
	style.HeaderFill = "#DCE6F1"
	return excel.NewExcelExporter(opts, style).Export(ctx, sources...)
}

// CSV zips one "<template>.csv" file per template.
func CSV(reg roi.Register) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, s := range reg.Sheets {
		w, err := zw.Create(string(s.Template) + ".csv")
		if err != nil {
			return nil, err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(headers(s)); err != nil {
			return nil, err
		}
		for _, r := range s.Rows {
			if err := cw.Write(r.Values); err != nil {
				return nil, err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headers(s roi.Sheet) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Code
	}
	return out
}

func cells(s roi.Sheet) [][]any {
	out := make([][]any, len(s.Rows))
	for i, r := range s.Rows {
		row := make([]any, len(r.Values))
		for j, v := range r.Values {
			row[j] = v
		}
		out[i] = row
	}
	return out
}
