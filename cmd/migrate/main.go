package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sopworks/sopdb/data"
	"github.com/sopworks/sopdb/internal/config"
	"github.com/sopworks/sopdb/internal/database"
	"gorm.io/gorm"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var rollback bool
	flag.BoolVar(&rollback, "rollback", false, "run the rollback script instead of the schema")
	var sqlFile string
	flag.StringVar(&sqlFile, "f", "", "path to a SQL file to run instead of the embedded scripts")
	flag.Parse()

	usage := `
Apply the SOP schema (or its rollback) to the configured database using
the admin credentials.

Usage:

migrate [-h] [-rollback] [-f SQL_FILE_PATH]
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.ConnectAdmin(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database as admin: %v", err)
	}
	defer database.Close(db)

	script := data.SopSchema
	name := "001-sop-schema"
	if rollback {
		script = data.SopSchemaRollback
		name = "001-sop-schema-rollback"
	}
	if sqlFile != "" {
		raw, err := os.ReadFile(sqlFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", sqlFile, err)
		}
		script = string(raw)
		name = sqlFile
	}

	log.Printf("Running %s against %s/%s", name, cfg.DBHost, cfg.DBDatabase)
	if err := runScript(db, script); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migration %s completed", name)
}

// runScript splits the script on statement terminators and executes the
// statements one at a time so the failing statement is identifiable.
func runScript(db *gorm.DB, script string) error {
	statements := strings.Split(script, ";")
	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || isCommentOnly(stmt) {
			continue
		}
		log.Printf("Statement %d: %s...", i+1, firstLine(stmt))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("statement %d failed: %w", i+1, err)
		}
	}
	return nil
}

func isCommentOnly(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}

func firstLine(stmt string) string {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if len(line) > 60 {
			return line[:60]
		}
		return line
	}
	return ""
}
