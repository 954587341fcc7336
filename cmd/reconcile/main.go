// main.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/database"
	"github.com/localnerve/barrio/internal/services"
)

type result struct {
	Counters     *services.ReconcileReport `json:"counters"`
	PurgedCodes  int64                     `json:"purgedCodes"`
	CodesSkipped bool                      `json:"codesSkipped,omitempty"`
}

func main() {
	var skipCodes bool
	flag.BoolVar(&skipCodes, "skip-codes", false, "do not purge expired verification codes")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	out := result{CodesSkipped: skipCodes}

	out.Counters, err = services.Reconcile(db)
	if err != nil {
		log.Fatalf("Failed to reconcile counters: %v", err)
	}

	if !skipCodes {
		out.PurgedCodes, err = services.PurgeExpiredCodes(db)
		if err != nil {
			log.Fatalf("Failed to purge verification codes: %v", err)
		}
	}

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}
	fmt.Println(string(output))

	os.Exit(0)
}
