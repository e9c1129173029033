package commands

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/iota-uz/dora-register/modules"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/eventbus"
)

type localeUsage struct {
	Key  string
	File string
	Line int
}

type MissingKey struct {
	Locale string
	Key    string
	Source string
}

// CheckLocales reports every translation key referenced from Go sources
// under root that is absent from one of languages. Only the locale files of
// mods are loaded, so no database is needed.
func CheckLocales(root string, languages []string, logger *logrus.Logger, mods ...application.Module) ([]MissingKey, error) {
	if len(languages) == 0 {
		languages = []string{"en", "de"}
	}
	app := application.New(&application.ApplicationOptions{
		Bundle:   application.LoadBundle(),
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, mods...); err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	usages, err := collectLocaleUsages(root)
	if err != nil {
		return nil, err
	}
	if len(usages) == 0 {
		return nil, fmt.Errorf("no translation keys referenced under %s", root)
	}

	messages := app.Bundle().Messages()
	tags := make(map[string]language.Tag, len(languages))
	for _, code := range languages {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", code, err)
		}
		if messages[tag] == nil {
			return nil, fmt.Errorf("language %q has no locale files", code)
		}
		tags[code] = tag
	}

	var missing []MissingKey
	seen := make(map[string]bool)
	for _, u := range usages {
		if seen[u.Key] {
			continue
		}
		seen[u.Key] = true
		for code, tag := range tags {
			if messages[tag][u.Key] == nil {
				missing = append(missing, MissingKey{
					Locale: code,
					Key:    u.Key,
					Source: fmt.Sprintf("%s:%d", u.File, u.Line),
				})
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Key != missing[j].Key {
			return missing[i].Key < missing[j].Key
		}
		return missing[i].Locale < missing[j].Locale
	})

	for _, m := range missing {
		logger.WithFields(logrus.Fields{
			"locale": m.Locale,
			"key":    m.Key,
			"source": m.Source,
		}).Error("translation key missing")
	}
	if len(missing) == 0 {
		logger.WithFields(logrus.Fields{
			"locales":     strings.Join(languages, ", "),
			"unique_keys": len(seen),
		}).Info("all translation keys are present")
	}
	return missing, nil
}

func collectLocaleUsages(root string) ([]localeUsage, error) {
	var usages []localeUsage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		fileUsages, err := collectLocaleUsagesFromFile(path, rel)
		if err != nil {
			return err
		}
		usages = append(usages, fileUsages...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// collectLocaleUsagesFromFile finds the locale key of serrors.NewError calls
// and MessageID fields of i18n.LocalizeConfig literals.
func collectLocaleUsagesFromFile(absPath, relPath string) ([]localeUsage, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, absPath, src, 0)
	if err != nil {
		return nil, err
	}

	var usages []localeUsage
	add := func(expr ast.Expr) {
		key, ok := stringLiteral(expr)
		if !ok || key == "" {
			return
		}
		usages = append(usages, localeUsage{Key: key, File: relPath, Line: fset.Position(expr.Pos()).Line})
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			selector, ok := node.Fun.(*ast.SelectorExpr)
			if !ok || selector.Sel.Name != "NewError" || len(node.Args) != 3 {
				return true
			}
			if pkg, ok := selector.X.(*ast.Ident); ok && pkg.Name == "serrors" {
				add(node.Args[2])
			}
		case *ast.CompositeLit:
			for _, elt := range node.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				if ident, ok := kv.Key.(*ast.Ident); ok && ident.Name == "MessageID" {
					add(kv.Value)
				}
			}
		}
		return true
	})
	return usages, nil
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	unquoted, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return unquoted, true
}
