package widgetdata

import (
	"github.com/go-faster/errors"
	"github.com/google/cel-go/cel"
)

// Filter is a compiled CEL boolean expression over table rows. Each column
// is a variable; the whole row is also bound to "row".
type Filter struct {
	expr    string
	columns []string
	prg     cel.Program
}

func newEnv(columns []string) (*cel.Env, error) {
	opts := []cel.EnvOption{
		cel.CrossTypeNumericComparisons(true),
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
	}
	for _, c := range columns {
		if c == "row" {
			continue
		}
		opts = append(opts, cel.Variable(c, cel.DynType))
	}
	return cel.NewEnv(opts...)
}

// CheckSyntax parses expr without resolving any column.
func CheckSyntax(expr string) error {
	env, err := newEnv(nil)
	if err != nil {
		return err
	}
	if _, iss := env.Parse(expr); iss != nil && iss.Err() != nil {
		return errors.Wrap(iss.Err(), "parse filter")
	}
	return nil
}

func CompileFilter(expr string, columns []string) (*Filter, error) {
	env, err := newEnv(columns)
	if err != nil {
		return nil, errors.Wrap(err, "filter env")
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrap(iss.Err(), "compile filter")
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "program filter")
	}
	return &Filter{expr: expr, columns: columns, prg: prg}, nil
}

func (f *Filter) Match(row map[string]any) (bool, error) {
	vars := make(map[string]any, len(f.columns)+1)
	for _, c := range f.columns {
		vars[c] = nil
	}
	for k, v := range row {
		vars[k] = v
	}
	vars["row"] = row
	out, _, err := f.prg.Eval(vars)
	if err != nil {
		return false, errors.Wrapf(err, "evaluate %q", f.expr)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("filter %q must return a boolean, got %s", f.expr, out.Type().TypeName())
	}
	return b, nil
}

// Apply keeps the rows matching f.
func (f *Filter) Apply(rows []map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
