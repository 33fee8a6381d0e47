package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/churn-cli/internal/config"
	"github.com/sells-group/churn-cli/internal/dataset"
)

// statusColumn is the label column of the customer table.
const statusColumn = "Customer_Status"

// SQLiteSource implements Source over a local sqlite store using
// modernc.org/sqlite. A connection is opened at the start of each operation
// and closed before it returns; none is held across flow boundaries.
type SQLiteSource struct {
	cfg      config.SQLConfig
	dataPath string
	log      *zap.Logger
}

// NewSQLite creates a SQLiteSource. dataPath is the CSV file the base table
// is (re)built from at Init time.
func NewSQLite(cfg config.SQLConfig, dataPath string, log *zap.Logger) *SQLiteSource {
	return &SQLiteSource{cfg: cfg, dataPath: dataPath, log: log}
}

func (s *SQLiteSource) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.cfg.DBPath)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open sqlite %s", s.cfg.DBPath)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "source: set busy_timeout")
	}
	return db, nil
}

// Init rebuilds the base table wholesale from the source CSV and applies the
// init script if one exists at the configured path. Running it twice on the
// same source yields the same table and views.
func (s *SQLiteSource) Init(ctx context.Context) error {
	t, err := dataset.ReadCSV(s.dataPath)
	if err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	s.log.Info("source: loading CSV into base table",
		zap.String("table", s.cfg.TableName),
		zap.String("csv", s.dataPath),
	)
	if err := replaceTable(ctx, db, s.cfg.TableName, t); err != nil {
		return err
	}
	s.log.Info("source: base table loaded",
		zap.String("table", s.cfg.TableName),
		zap.Int("rows", t.NumRows()),
	)

	script, err := os.ReadFile(s.cfg.ScriptPath)
	if os.IsNotExist(err) {
		s.log.Warn("source: init script not found, views may not exist",
			zap.String("script", s.cfg.ScriptPath),
		)
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "source: read script %s", s.cfg.ScriptPath)
	}

	s.log.Info("source: applying init script", zap.String("script", s.cfg.ScriptPath))
	if _, err := db.ExecContext(ctx, string(script)); err != nil {
		return eris.Wrapf(err, "source: exec script %s", s.cfg.ScriptPath)
	}
	return nil
}

// FetchTrainingRows selects from the churn view when it exists; an absent
// view falls back to a status filter on the base table. Any other query
// failure is returned to the caller.
func (s *SQLiteSource) FetchTrainingRows(ctx context.Context) (dataset.Table, error) {
	db, err := s.open()
	if err != nil {
		return dataset.Table{}, err
	}
	defer db.Close() //nolint:errcheck

	ok, err := viewExists(ctx, db, s.cfg.ViewChurn)
	if err != nil {
		return dataset.Table{}, err
	}
	if ok {
		return loadQuery(ctx, db, fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.cfg.ViewChurn)))
	}

	s.log.Warn("source: churn view missing, filtering base table",
		zap.String("view", s.cfg.ViewChurn),
		zap.String("table", s.cfg.TableName),
		zap.String("filter", statusColumn+" IN ('Churned','Stayed')"),
	)
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s IN ('Churned','Stayed')",
		quoteIdent(s.cfg.TableName), quoteIdent(statusColumn))
	return loadQuery(ctx, db, q)
}

// FetchInferenceRows returns the whole base table, or only newly joined
// customers when joinedOnly is set (joined view with the same
// absent-view-filter fallback as training).
func (s *SQLiteSource) FetchInferenceRows(ctx context.Context, joinedOnly bool) (dataset.Table, error) {
	db, err := s.open()
	if err != nil {
		return dataset.Table{}, err
	}
	defer db.Close() //nolint:errcheck

	if !joinedOnly {
		return loadQuery(ctx, db, fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.cfg.TableName)))
	}

	if s.cfg.ViewJoined != "" {
		ok, err := viewExists(ctx, db, s.cfg.ViewJoined)
		if err != nil {
			return dataset.Table{}, err
		}
		if ok {
			return loadQuery(ctx, db, fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.cfg.ViewJoined)))
		}
	}

	s.log.Warn("source: joined view missing, filtering base table",
		zap.String("view", s.cfg.ViewJoined),
		zap.String("table", s.cfg.TableName),
		zap.String("filter", statusColumn+" = 'Joined'"),
	)
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = 'Joined'",
		quoteIdent(s.cfg.TableName), quoteIdent(statusColumn))
	return loadQuery(ctx, db, q)
}

// PersistPredictions replaces the destination table wholesale.
func (s *SQLiteSource) PersistPredictions(ctx context.Context, t dataset.Table, destination string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := replaceTable(ctx, db, destination, t); err != nil {
		return err
	}
	s.log.Info("source: predictions saved",
		zap.Int("rows", t.NumRows()),
		zap.String("table", destination),
	)
	return nil
}

func viewExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrapf(err, "source: check view %s", name)
	}
	return n > 0, nil
}

// replaceTable drops and recreates name from t, inferring REAL for columns
// whose non-empty values all parse as numbers and TEXT otherwise.
func replaceTable(ctx context.Context, db *sql.DB, name string, t dataset.Table) error {
	cols := t.Columns()
	types := inferColumnTypes(t)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "source: begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(name))); err != nil {
		return eris.Wrapf(err, "source: drop table %s", name)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), types[i])
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return eris.Wrapf(err, "source: create table %s", name)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrapf(err, "source: prepare insert %s", name)
	}
	defer stmt.Close() //nolint:errcheck

	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		args := make([]any, len(row))
		for j, cell := range row {
			if types[j] == "REAL" {
				if cell == "" {
					args[j] = nil
				} else {
					f, _ := strconv.ParseFloat(cell, 64)
					args[j] = f
				}
			} else {
				args[j] = cell
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "source: insert row %d into %s", i, name)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrapf(err, "source: commit %s", name)
	}
	return nil
}

func inferColumnTypes(t dataset.Table) []string {
	types := make([]string, t.NumCols())
	for j := range types {
		types[j] = "REAL"
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for j, cell := range row {
			if types[j] == "TEXT" || cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				types[j] = "TEXT"
			}
		}
	}
	return types
}

// loadQuery runs a SELECT and materializes the result as a Table. NULLs read
// back as empty cells and REALs format with their shortest round-trip form,
// so a CSV-loaded table survives the sqlite round trip.
func loadQuery(ctx context.Context, db *sql.DB, query string) (dataset.Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return dataset.Table{}, eris.Wrapf(err, "source: query %s", query)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return dataset.Table{}, eris.Wrap(err, "source: result columns")
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return dataset.Table{}, eris.Wrap(err, "source: scan row")
		}

		cells := make([]string, len(cols))
		for i, v := range vals {
			cells[i] = formatCell(v)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, eris.Wrap(err, "source: iterate rows")
	}

	return dataset.New(cols, out)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
