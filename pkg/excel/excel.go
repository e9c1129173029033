// Package excel renders tabular data sources into xlsx workbooks.
package excel

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the limit Excel enforces on sheet names.
const MaxSheetNameLength = 31

var ErrTooManyRows = errors.New("excel: row limit exceeded")

// RowIterator yields the next row. ok is false once the source is drained.
type RowIterator func() (row []any, ok bool, err error)

type DataSource interface {
	SheetName() string
	Headers() []string
	Rows(ctx context.Context) (RowIterator, error)
}

type ExportOptions struct {
	IncludeHeaders bool
	FreezeHeader   bool
	AutoFilter     bool
	// MaxRows caps data rows per sheet; zero means unlimited.
	MaxRows int
}

type StyleOptions struct {
	HeaderBold bool
	// HeaderFill is a hex colour such as "#DCE6F1"; empty leaves the header unfilled.
	HeaderFill string
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{IncludeHeaders: true, FreezeHeader: true}
}

func DefaultStyleOptions() StyleOptions {
	return StyleOptions{HeaderBold: true}
}

type ExcelExporter struct {
	opts  ExportOptions
	style StyleOptions
}

func NewExcelExporter(opts ExportOptions, style StyleOptions) *ExcelExporter {
	return &ExcelExporter{opts: opts, style: style}
}

// Export writes one sheet per source, in order, and returns the workbook bytes.
func (e *ExcelExporter) Export(ctx context.Context, sources ...DataSource) ([]byte, error) {
	if len(sources) == 0 {
		return nil, errors.New("excel: no data sources")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := e.headerStyle(f)
	if err != nil {
		return nil, err
	}
	defaultSheet := f.GetSheetName(0)
	for i, src := range sources {
		name := sheetName(src.SheetName(), i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := e.writeSheet(ctx, f, name, src, headerStyle); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) headerStyle(f *excelize.File) (int, error) {
	style := &excelize.Style{Font: &excelize.Font{Bold: e.style.HeaderBold}}
	if e.style.HeaderFill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.style.HeaderFill}}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("header style: %w", err)
	}
	return id, nil
}

func (e *ExcelExporter) writeSheet(ctx context.Context, f *excelize.File, name string, src DataSource, headerStyle int) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	headers := src.Headers()
	rowNum := 1
	if e.opts.IncludeHeaders && len(headers) > 0 {
		if e.opts.FreezeHeader {
			if err := sw.SetPanes(&excelize.Panes{
				Freeze:      true,
				YSplit:      1,
				TopLeftCell: "A2",
				ActivePane:  "bottomLeft",
			}); err != nil {
				return err
			}
		}
		cells := make([]any, len(headers))
		for i, h := range headers {
			cells[i] = excelize.Cell{StyleID: headerStyle, Value: h}
		}
		if err := sw.SetRow("A1", cells); err != nil {
			return err
		}
		rowNum++
	}

	next, err := src.Rows(ctx)
	if err != nil {
		return err
	}
	written := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, ok, err := next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if e.opts.MaxRows > 0 && written >= e.opts.MaxRows {
			return ErrTooManyRows
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
		rowNum++
		written++
	}

	if e.opts.AutoFilter && e.opts.IncludeHeaders && len(headers) > 0 && written > 0 {
		last, err := excelize.CoordinatesToCellName(len(headers), rowNum-1)
		if err != nil {
			return err
		}
		if err := sw.AddTable(&excelize.Table{Range: "A1:" + last, Name: tableName(name)}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func sheetName(name string, idx int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", idx+1)
	}
	if len(name) > MaxSheetNameLength {
		name = name[:MaxSheetNameLength]
	}
	return name
}

func tableName(sheet string) string {
	out := make([]rune, 0, len(sheet)+1)
	out = append(out, 'T')
	for _, r := range sheet {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}
