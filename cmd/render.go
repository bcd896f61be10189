package main

import (
	"os"
	"text/tabwriter"
)

// newTab returns a tabwriter for aligned list output. Callers must Flush.
func newTab() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
