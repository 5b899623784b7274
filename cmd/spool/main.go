// spool is a filament spool inventory manager.
// Single binary — profile storage, search, price tracking, cost reports.
package main

import (
	"os"

	"github.com/corey/spool/cmd/spool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
