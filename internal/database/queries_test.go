package database

import (
	"io"
	"log/slog"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeetms/fleet-admin/internal/model"
)

func newBuilderDB() *DB {
	return &DB{Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCountAssignedQuery_CountsOverlappingSignalsOnce(t *testing.T) {
	dao := NewVehicleDAO(discardLogger(), newBuilderDB())

	query, args, err := dao.countAssignedQuery(model.ID(3))
	require.NoError(t, err)

	// A vehicle holding an active ledger row while also flagged with the
	// assigned status code must contribute a single count.
	assert.Contains(t, query, "COUNT(DISTINCT v.id)")
	assert.Contains(t, query, "a.end_date IS NULL")
	assert.Contains(t, query, "a.id IS NOT NULL OR v.status_id = $1")
	assert.Equal(t, []any{model.ID(3)}, args)
}

func TestEmployeeDeleteWithHistory_PurgesLedgerRows(t *testing.T) {
	dao := NewEmployeeDAO(discardLogger(), newBuilderDB())

	query, args, err := dao.purgeAssignmentsQuery(model.ID(7))
	require.NoError(t, err)

	// Without the purge the ledger's employee foreign key would reject
	// deleting any employee with closed assignments.
	assert.Equal(t, "DELETE FROM vehicle_assignments WHERE employee_id = $1", query)
	assert.Equal(t, []any{model.ID(7)}, args)
}

func TestWithDefaultSSLMode(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "bare dsn",
			dsn:  "postgres:postgres@localhost:5432/fleet",
			want: "postgres:postgres@localhost:5432/fleet?sslmode=disable",
		},
		{
			name: "dsn with params",
			dsn:  "postgres:postgres@localhost:5432/fleet?sslmode=require",
			want: "postgres:postgres@localhost:5432/fleet?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withDefaultSSLMode(tt.dsn))
		})
	}
}
