package excel

import "context"

// SliceDataSource serves rows that are already in memory.
type SliceDataSource struct {
	name    string
	headers []string
	rows    [][]any
}

func NewSliceDataSource(headers []string, rows [][]any) *SliceDataSource {
	return &SliceDataSource{headers: headers, rows: rows}
}

func (s *SliceDataSource) WithSheetName(name string) *SliceDataSource {
	s.name = name
	return s
}

func (s *SliceDataSource) SheetName() string { return s.name }
func (s *SliceDataSource) Headers() []string { return s.headers }

func (s *SliceDataSource) Rows(context.Context) (RowIterator, error) {
	i := 0
	return func() ([]any, bool, error) {
		if i >= len(s.rows) {
			return nil, false, nil
		}
		row := s.rows[i]
		i++
		return row, true, nil
	}, nil
}
