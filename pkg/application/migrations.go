package application

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/sirupsen/logrus"
)

type MigrationStatus struct {
	Module    string    `json:"module"`
	Version   int64     `json:"version"`
	Source    string    `json:"source"`
	Applied   bool      `json:"applied"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
}

type schema struct {
	module string
	fsys   fs.FS
}

// NewMigrationManager applies goose-formatted SQL embedded by each module.
// Every module keeps its own version table so numbering is module-local.
func NewMigrationManager(pool *pgxpool.Pool, logger *logrus.Logger) MigrationManager {
	return &migrationManager{pool: pool, logger: logger}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	logger  *logrus.Logger
	schemas []schema
}

func (m *migrationManager) RegisterSchema(module string, files *embed.FS) {
	sub, err := sqlRoot(files)
	if err != nil {
		panic(fmt.Sprintf("migrations for %s: %v", module, err))
	}
	m.schemas = append(m.schemas, schema{module: module, fsys: sub})
}

// sqlRoot returns the directory that holds the embedded .sql files.
func sqlRoot(files fs.FS) (fs.FS, error) {
	all, err := listFiles(files, ".")
	if err != nil {
		return nil, err
	}
	for _, f := range all {
		if strings.HasSuffix(f, ".sql") {
			return fs.Sub(files, path.Dir(f))
		}
	}
	return nil, errors.New("no .sql files embedded")
}

func versionTable(module string) string {
	return "goose_" + strings.ReplaceAll(module, "-", "_") + "_version"
}

func (m *migrationManager) open() (*sql.DB, error) {
	if m.pool == nil {
		return nil, errors.New("migrations require a database pool")
	}
	return sql.Open("postgres", m.pool.Config().ConnString())
}

func (m *migrationManager) provider(db *sql.DB, s schema) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectPostgres, versionTable(s.module))
	if err != nil {
		return nil, err
	}
	return goose.NewProvider("", db, s.fsys, goose.WithStore(store))
}

// Run applies pending migrations module by module in registration order.
func (m *migrationManager) Run(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, s := range m.schemas {
		p, err := m.provider(db, s)
		if err != nil {
			return fmt.Errorf("migrations for %s: %w", s.module, err)
		}
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", s.module, err)
		}
		for _, r := range results {
			m.log().WithFields(logrus.Fields{
				"module":   s.module,
				"version":  r.Source.Version,
				"duration": r.Duration,
			}).Info("migration applied")
		}
	}
	return nil
}

// Rollback reverts the latest migration of the last registered module that has one applied.
func (m *migrationManager) Rollback(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for i := len(m.schemas) - 1; i >= 0; i-- {
		s := m.schemas[i]
		p, err := m.provider(db, s)
		if err != nil {
			return fmt.Errorf("migrations for %s: %w", s.module, err)
		}
		version, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("version of %s: %w", s.module, err)
		}
		if version == 0 {
			continue
		}
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("rollback %s: %w", s.module, err)
		}
		m.log().WithFields(logrus.Fields{"module": s.module, "version": r.Source.Version}).Info("migration rolled back")
		return nil
	}
	return nil
}

func (m *migrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	db, err := m.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var out []MigrationStatus
	for _, s := range m.schemas {
		p, err := m.provider(db, s)
		if err != nil {
			return nil, fmt.Errorf("migrations for %s: %w", s.module, err)
		}
		statuses, err := p.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("status of %s: %w", s.module, err)
		}
		for _, st := range statuses {
			out = append(out, MigrationStatus{
				Module:    s.module,
				Version:   st.Source.Version,
				Source:    path.Base(st.Source.Path),
				Applied:   st.State == goose.StateApplied,
				AppliedAt: st.AppliedAt,
			})
		}
	}
	return out, nil
}

func (m *migrationManager) log() *logrus.Logger {
	if m.logger != nil {
		return m.logger
	}
	return logrus.StandardLogger()
}
