package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV_FixedColumnsAndBooleans(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	john := env.createStaff(t, "John", "Smith", "0400000002")
	env.assign(t, jane.ID, "RIDER", "FARM", "2024-02-01")
	_, err := env.staff.End(ctx, john.ID, dayPtr(t, "2024-05-31"))
	require.NoError(t, err)

	entries, filter, err := env.roster.ListStaffAsOf(ctx, RosterQuery{})
	require.NoError(t, err)
	require.True(t, filter.Day.Equal(day(t, "2024-06-01")))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, ExportColumns, records[0])
	require.Equal(t, []string{jane.ID, "Jane", "Doe", "Jane Doe", "0412345678", "", "2024-01-01", "", "TRUE", "RIDER", "Rider", "FARM"}, records[1])
	require.Equal(t, "FALSE", records[2][8])
	require.Equal(t, "2024-05-31", records[2][7])
	require.Equal(t, "", records[2][9])
}

func TestBuildXLSX_MatchesCSVRows(t *testing.T) {
	env := newTestEnv(t, "2024-06-01")
	jane := env.createJane(t)
	env.assign(t, jane.ID, "VET", "", "2024-02-01")

	entries, _, err := env.roster.ListStaffAsOf(context.Background(), RosterQuery{})
	require.NoError(t, err)

	buf, err := BuildXLSX(entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, ExportColumns, rows[0])
	require.Equal(t, jane.ID, rows[1][0])
	require.Equal(t, "VET", rows[1][9])
}

func TestExportFilename(t *testing.T) {
	require.Equal(t, "staff_2024-06-01.csv", ExportFilename(day(t, "2024-06-01"), "csv"))
}
