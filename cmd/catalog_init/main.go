package main

import (
	"context"
	"flag"
	"log"

	"dlc-report/internal/config"
	"dlc-report/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// catalog_init creates the MOI catalog database, the DLC tables that
// CatalogSync appends to, and the NL2SQL glossary used by Data Asking.
func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	if cfg.MOI.APIKey == "" {
		log.Fatal("moi.api_key is required")
	}
	client, err := cfg.NewRawClient()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	catalogID := sdk.CatalogID(cfg.MOI.CatalogID)
	if catalogID == 0 {
		catalogID = 1
	}

	dbID, tables, err := initCatalog(ctx, client, catalogID, cfg.Database.Name)
	if err != nil {
		log.Fatal("catalog init failed: ", err)
	}
	logger.Info("catalog: set moi.database_id and moi.reports_table_id",
		"database_id", dbID, "reports_table_id", tables["weekly_reports"])

	if err := initKnowledge(ctx, client); err != nil {
		log.Fatal("knowledge init failed: ", err)
	}

	logger.Info("=== all done ===")
}
