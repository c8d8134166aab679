package tidystore

import (
	"context"
	"database/sql"
	"time"

	"censusops/lib/census"
	"censusops/lib/tidystore/db"

	_ "modernc.org/sqlite"
)

// Store caches tidy tables in sqlite, keyed by the endpoint's no-key
// url. Pushing the same url again replaces the previous pull; this is
// a local cache, not a versioned archive.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func Open(path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		return Store{}, err
	}
	return NewStore(database), nil
}

func (s Store) Push(ctx context.Context, rows []census.TidyRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// rows from one pipeline run share the same provenance url.
	// the child rows are deleted explicitly: the sqlite driver does
	// not enable foreign keys, so the schema's cascade never fires
	head := rows[0]
	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM tidy_row WHERE pull_id IN
			(SELECT id FROM pull WHERE url_no_key = ?)`,
		head.FullUrl,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM pull WHERE url_no_key = ?`,
		head.FullUrl,
	)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO pull (url_no_key, dataset, year, date_pulled) VALUES (?, ?, ?, ?)`,
		head.FullUrl, head.Dataset, head.Year, head.DatePulled.Unix(),
	)
	if err != nil {
		return err
	}
	pullId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, row := range rows {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO tidy_row (
				pull_id, row_id, concept, geo_id, ucgid, geo_name,
				variable_id, variable_name, value, value_type
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pullId, row.RowId, row.Concept, row.GeoId, row.Ucgid,
			row.GeoName, row.VariableId, row.VariableName, row.Value,
			row.ValueType,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s Store) Pull(ctx context.Context, urlNoKey string) ([]census.TidyRow, error) {
	var pullId int64
	var dataset string
	var year int
	var datePulled int64

	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, dataset, year, date_pulled FROM pull WHERE url_no_key = ?`,
		urlNoKey,
	).Scan(&pullId, &dataset, &year, &datePulled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := s.db.QueryContext(
		ctx,
		`SELECT row_id, concept, geo_id, ucgid, geo_name,
			variable_id, variable_name, value, value_type
		FROM tidy_row WHERE pull_id = ? ORDER BY row_id`,
		pullId,
	)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	var rows []census.TidyRow
	for result.Next() {
		row := census.TidyRow{
			Dataset:    dataset,
			Year:       year,
			FullUrl:    urlNoKey,
			DatePulled: time.Unix(datePulled, 0),
		}
		err := result.Scan(
			&row.RowId, &row.Concept, &row.GeoId, &row.Ucgid,
			&row.GeoName, &row.VariableId, &row.VariableName,
			&row.Value, &row.ValueType,
		)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}
