package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"healthdash/adapters/postgres"
	"healthdash/adapters/tabular"
	"healthdash/app"
	"healthdash/domain/core"
	"healthdash/domain/survey"
	"healthdash/internal/config"
	"healthdash/internal/errors"
	"healthdash/internal/migration"
	"healthdash/ports"
	"healthdash/ui"
)

// initDatabase connects to the optional load-catalog database and brings its
// schema up to date. An empty DATABASE_URL disables the catalog and returns
// a nil handle.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

// loadDataset reads the configured source file, derives the dashboard dataset
// and builds the load record for it.
func loadDataset(appConfig *config.Config) (*survey.Dataset, survey.LoadInfo, error) {
	reader := tabular.NewReader(appConfig.Data.Path)
	table, err := reader.Read()
	if err != nil {
		return nil, survey.LoadInfo{}, err
	}

	checksum, err := tabular.FileChecksum(appConfig.Data.Path)
	if err != nil {
		return nil, survey.LoadInfo{}, err
	}

	dataset, err := survey.Derive(table)
	if err != nil {
		return nil, survey.LoadInfo{}, err
	}

	info := survey.LoadInfo{
		ID:           core.NewLoadID(),
		Source:       appConfig.Data.Path,
		Checksum:     checksum,
		RecordCount:  dataset.Len(),
		ColumnCount:  len(dataset.Columns),
		NullFAFCount: dataset.NullFAFCount(),
		LoadedAt:     core.Now(),
	}
	return dataset, info, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dataset, info, err := loadDataset(appConfig)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Dataset ready: %d records, %d columns, %d null FAF values",
		info.RecordCount, info.ColumnCount, info.NullFAFCount)

	// Initialize the optional load catalog
	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var catalog ports.LoadCatalog
	if db != nil {
		defer db.Close()
		catalog = postgres.NewLoadCatalog(db)
		if err := catalog.RecordLoad(context.Background(), info); err != nil {
			log.Printf("Warning: failed to record load in catalog: %v", err)
		}
	} else {
		log.Println("No DATABASE_URL configured, load catalog disabled")
	}

	explorer := app.NewExplorer(dataset, info)

	// Start the internal ops listener
	ops := ui.NewOpsServer(explorer, appConfig.Ops.EnablePprof)
	go func() {
		log.Printf("Ops listener starting on :%s", appConfig.Ops.Port)
		if err := ops.Start(":" + appConfig.Ops.Port); err != nil {
			log.Printf("❌ ops listener failed: %v", err)
		}
	}()

	// Start the dashboard server
	server := ui.NewServer(explorer, catalog, *appConfig)
	log.Printf("🚀 Starting dashboard server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
