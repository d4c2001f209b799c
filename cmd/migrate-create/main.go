package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scaffolds a timestamped up/down migration pair under db/migrations.
func main() {
	name := flag.String("name", "", "migration name, e.g. add_pigs_index")
	flag.Parse()

	if *name == "" {
		log.Fatal("migration name is required")
	}
	if strings.ContainsAny(*name, " ") {
		log.Fatal("migration name must not contain spaces")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, *name)
	dir := filepath.Join("db", "migrations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}

	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(dir, base+suffix)
		if err := writeNewFile(path, "-- "+*name+"\n"); err != nil {
			log.Fatalf("create migration: %v", err)
		}
		log.Printf("created %s", path)
	}
}

func writeNewFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
