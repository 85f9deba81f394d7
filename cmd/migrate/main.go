package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository/postgres"
)

// Applies every .sql file under migrations/ in lexical order. Statements are
// written to be re-runnable (IF NOT EXISTS), so running this repeatedly is
// harmless.
func main() {
	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("Failed to read migrations dir %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		sqlBytes, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			log.Fatalf("Migration %s failed: %v", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}

	fmt.Printf("done: %d migration(s)\n", len(files))
}
