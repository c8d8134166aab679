package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"censusops/lib/telemetry"

	_ "modernc.org/sqlite"
)

type StoreParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type StoreResult struct {
	DB *sql.DB
}

// SetupStore wires telemetry and an ephemeral sqlite database for a
// store test.
func SetupStore(t testing.TB, params StoreParams) (StoreResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	if params.DbSchema == "" {
		return StoreResult{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(params.DbSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}

	return StoreResult{DB: sqlite}, cleanup
}
