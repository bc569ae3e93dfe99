package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"salarypredictor/internal/models"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS training_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    trained_at TEXT NOT NULL,
    slope REAL,
    intercept REAL,
    mae REAL,
    mse REAL,
    rmse REAL,
    r2 REAL,
    r2_undefined INTEGER,
    n_total INTEGER,
    n_train INTEGER,
    n_test INTEGER
);`

// Run is one row of training history.
type Run struct {
	ID int64 `json:"id"`
	models.Metrics
}

// History is an append-only log of training runs in sqlite.
type History struct {
	db *sql.DB
}

func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history %s", path)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}
	return &History{db: db}, nil
}

func (h *History) Close() error { return h.db.Close() }

func (h *History) Record(ctx context.Context, m models.Metrics) (int64, error) {
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO training_runs (trained_at, slope, intercept, mae, mse, rmse, r2, r2_undefined, n_total, n_train, n_test)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TrainedAt.UTC().Format(time.RFC3339Nano), m.Slope, m.Intercept, m.MAE, m.MSE, m.RMSE, m.R2,
		m.R2Undefined, m.NTotal, m.NTrain, m.NTest,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert training run")
	}
	return res.LastInsertId()
}

// Recent lists up to limit runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, trained_at, slope, intercept, mae, mse, rmse, r2, r2_undefined, n_total, n_train, n_test
         FROM training_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query training runs")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var at string
		if err := rows.Scan(&r.ID, &at, &r.Slope, &r.Intercept, &r.MAE, &r.MSE, &r.RMSE, &r.R2,
			&r.R2Undefined, &r.NTotal, &r.NTrain, &r.NTest); err != nil {
			return nil, errors.Wrap(err, "scan training run")
		}
		if r.TrainedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, errors.Wrapf(err, "parse trained_at of run %d", r.ID)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
