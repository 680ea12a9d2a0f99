// Package report renders aggregated timings for the terminal and for tools.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/celltime/internal/timing"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Formats lists the supported output formats.
var Formats = []string{"table", "json", "yaml", "csv"}

// Render writes records to w in the given format.
func Render(w io.Writer, records []timing.Record, format string) error {
	switch format {
	case "table", "":
		return renderTable(w, records)
	case "json":
		return renderJSON(w, records)
	case "yaml":
		return renderYAML(w, records)
	case "csv":
		return renderCSV(w, records)
	default:
		return fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// asMap rebuilds the name -> seconds mapping that record files use.
func asMap(records []timing.Record) map[string]float64 {
	m := make(map[string]float64, len(records))
	for _, r := range records {
		m[r.Name] = r.Seconds
	}
	return m
}

func renderTable(w io.Writer, records []timing.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No timings recorded")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Seconds")
	for _, r := range records {
		if err := table.Append(r.Name, formatSeconds(r.Seconds)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal blocks: %d\n", len(records))
	return err
}

func renderJSON(w io.Writer, records []timing.Record) error {
	bts, err := json.MarshalIndent(asMap(records), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bts))
	return err
}

func renderYAML(w io.Writer, records []timing.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(asMap(records)); err != nil {
		return err
	}
	return enc.Close()
}

func renderCSV(w io.Writer, records []timing.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "seconds"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Name, formatSeconds(r.Seconds)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}
