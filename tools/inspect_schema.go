// inspect_schema prints the DDL gorm generates for every barrio model against sqlite.
// Use it to diff data/initdb against the models after a model change.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/localnerve/barrio/internal/database"
	"github.com/localnerve/barrio/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	var table string
	flag.StringVar(&table, "table", "", "only print this table")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, name := range tables {
		if table != "" && name != table {
			continue
		}
		fmt.Printf("\n=== Table: %s ===\n", name)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", name).Scan(&schema)
		fmt.Println(schema)

		var indexes []string
		db.Raw("SELECT sql FROM sqlite_master WHERE type='index' AND tbl_name = ? AND sql IS NOT NULL", name).Scan(&indexes)
		for _, idx := range indexes {
			fmt.Println(idx)
		}
	}
}
