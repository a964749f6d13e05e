package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dlc-report/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// CatalogSync mirrors submitted reports into a MOI catalog table so they can
// be queried with Data Asking. Failures are logged and never block submission.
type CatalogSync struct {
	raw        *sdk.RawClient
	sdk        *sdk.SDKClient
	databaseID sdk.DatabaseID
	reportsID  sdk.TableID
}

func NewCatalogSync(raw *sdk.RawClient, databaseID, reportsTableID int64) *CatalogSync {
	return &CatalogSync{
		raw:        raw,
		sdk:        sdk.NewSDKClient(raw),
		databaseID: sdk.DatabaseID(databaseID),
		reportsID:  sdk.TableID(reportsTableID),
	}
}

// reportMapping is the weekly_reports layout created by cmd/catalog_init.
var reportMapping = []sdk.FileAndTableColumnMapping{
	{TableColumn: "id", Column: "id", ColNumInFile: 1},
	{TableColumn: "team_id", Column: "team_id", ColNumInFile: 2},
	{TableColumn: "team_name", Column: "team_name", ColNumInFile: 3},
	{TableColumn: "lga_id", Column: "lga_id", ColNumInFile: 4},
	{TableColumn: "week", Column: "week", ColNumInFile: 5},
	{TableColumn: "month", Column: "month", ColNumInFile: 6},
	{TableColumn: "year", Column: "year", ColNumInFile: 7},
	{TableColumn: "trainees_trained", Column: "trainees_trained", ColNumInFile: 8},
	{TableColumn: "present", Column: "present", ColNumInFile: 9},
	{TableColumn: "absent", Column: "absent", ColNumInFile: 10},
	{TableColumn: "not_trained", Column: "not_trained", ColNumInFile: 11},
	{TableColumn: "no_data", Column: "no_data", ColNumInFile: 12},
	{TableColumn: "submitted_at", Column: "submitted_at", ColNumInFile: 13},
	{TableColumn: "submitted_by", Column: "submitted_by", ColNumInFile: 14},
}

func (s *CatalogSync) SyncReport(ctx context.Context, r model.WeeklyReport, teamName string) {
	s.importCSV(ctx, s.reportsID, reportCSVRow(r, teamName), fmt.Sprintf("report_%s.csv", r.ID), reportMapping)
}

func reportCSVRow(r model.WeeklyReport, teamName string) string {
	counts := map[model.Status]int{}
	for _, ms := range r.MemberStatuses {
		counts[ms.Status]++
	}
	return fmt.Sprintf("%s,%s,%s,%s,%d,%s,%d,%d,%d,%d,%d,%d,%s,%s\n",
		esc(r.ID), esc(r.TeamID), esc(teamName), esc(r.LGAID), r.Week, r.Month, r.Year,
		r.TraineesTrained,
		counts[model.StatusPresent], counts[model.StatusAbsent],
		counts[model.StatusNotTrained], counts[model.StatusNoData],
		r.SubmittedAt, esc(r.SubmittedBy))
}

func (s *CatalogSync) importCSV(ctx context.Context, tableID sdk.TableID, csv, fileName string, mapping []sdk.FileAndTableColumnMapping) {
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		slog.Warn("catalog sync: upload failed", "table", tableID, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		slog.Warn("catalog sync: no conn_file_ids", "table", tableID)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.databaseID,
		TableID:          tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     mapping,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		slog.Warn("catalog sync: import failed", "table", tableID, "err", err)
		return
	}
	slog.Info("catalog sync: ok", "table", tableID, "file", fileName)
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
