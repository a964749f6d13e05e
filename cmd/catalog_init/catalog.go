package main

import (
	"context"
	"fmt"
	"strings"

	"dlc-report/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

type tableDef struct {
	name    string
	comment string
	columns []sdk.Column
}

// dlcTables mirrors the column order of service.reportMapping for
// weekly_reports; the roster tables are for manual loads.
var dlcTables = []tableDef{
	{"weekly_reports", "weekly DLC team reports", []sdk.Column{
		{Name: "id", Type: "VARCHAR(64)", IsPk: true, Comment: "report id"},
		{Name: "team_id", Type: "VARCHAR(64)", Comment: "reporting team, teams.id"},
		{Name: "team_name", Type: "VARCHAR(100)", Comment: "team name at submission time"},
		{Name: "lga_id", Type: "VARCHAR(16)", Comment: "LGA code such as KT, BAT, MAL"},
		{Name: "week", Type: "INT", Comment: "week of month, 1 to 5"},
		{Name: "month", Type: "VARCHAR(16)", Comment: "English month name, January to December"},
		{Name: "year", Type: "INT", Comment: "calendar year"},
		{Name: "trainees_trained", Type: "INT", Comment: "trainees trained by the team that week"},
		{Name: "present", Type: "INT", Comment: "members with status P"},
		{Name: "absent", Type: "INT", Comment: "members with status ABS"},
		{Name: "not_trained", Type: "INT", Comment: "members with status NT"},
		{Name: "no_data", Type: "INT", Comment: "members with status NDB"},
		{Name: "submitted_at", Type: "VARCHAR(32)", Comment: "ISO-8601 submission timestamp"},
		{Name: "submitted_by", Type: "VARCHAR(100)", Comment: "display name of the submitting leader"},
	}},
	{"teams", "DLC teams", []sdk.Column{
		{Name: "id", Type: "VARCHAR(64)", IsPk: true, Comment: "team id"},
		{Name: "name", Type: "VARCHAR(100)", Comment: "team name"},
		{Name: "lga_id", Type: "VARCHAR(16)", Comment: "LGA code"},
		{Name: "leader_id", Type: "VARCHAR(64)", Comment: "login identifier of the team leader"},
	}},
	{"members", "DLC team members", []sdk.Column{
		{Name: "id", Type: "VARCHAR(64)", IsPk: true, Comment: "member id"},
		{Name: "name", Type: "VARCHAR(100)", Comment: "member full name"},
		{Name: "team_id", Type: "VARCHAR(64)", Comment: "teams.id"},
	}},
}

// initCatalog returns the database id and the id of every table it created.
// Tables that already exist are skipped and absent from the map.
func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, map[string]sdk.TableID, error) {
	dbID, err := createDatabase(ctx, client, catalogID, dbName)
	if err != nil {
		return 0, nil, err
	}

	ids := make(map[string]sdk.TableID, len(dlcTables))
	for _, t := range dlcTables {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: dbID,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("catalog: table already exists, skipping", "name", t.name)
				continue
			}
			return 0, nil, fmt.Errorf("create table %s: %w", t.name, err)
		}
		ids[t.name] = resp.TableID
		logger.Info("catalog: table created", "name", t.name, "id", resp.TableID)
	}
	return dbID, ids, nil
}

func createDatabase(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "Katsina DLC weekly reporting",
	})
	if err == nil {
		logger.Info("catalog: database created", "id", resp.DatabaseID)
		return resp.DatabaseID, nil
	}
	if !isDuplicate(err) {
		return 0, fmt.Errorf("create database: %w", err)
	}

	logger.Info("catalog: database already exists, discovering ID", "name", dbName)
	list, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range list.List {
		if db.DatabaseName == dbName {
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	for _, marker := range []string{"duplicate", "already exist", "exists", "conflict"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
