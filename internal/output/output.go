// Package output renders command report records. Every command returns a
// slice of flat structs; rendering is reflection-driven so the formats stay
// uniform across commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"
)

// Format selects how report records are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatXLSX:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q", s)
	}
}

// Warn prints a yellow warning to stderr. Used for empty query results,
// which are warnings, never errors.
func Warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString(format, args...))
}

// Render writes rows (a slice of report structs) to w in the given format.
// XLSX output goes to file instead of w.
func Render(w io.Writer, format Format, file string, rows any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatXLSX:
		return renderXLSX(file, rows)
	default:
		return renderTable(w, rows)
	}
}

func renderTable(w io.Writer, rows any) error {
	headers, records := flatten(rows)
	if len(records) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, record := range records {
		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}
	return tw.Flush()
}

func renderXLSX(file string, rows any) error {
	if file == "" {
		file = "vcadm-report.xlsx"
	}

	headers, records := flatten(rows)

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for row, record := range records {
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(file)
}

// flatten turns a slice of flat structs into header and cell strings. Slice
// fields are comma-joined.
func flatten(rows any) ([]string, [][]string) {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return nil, nil
	}

	elem := v.Index(0).Type()
	headers := make([]string, 0, elem.NumField())
	for i := 0; i < elem.NumField(); i++ {
		headers = append(headers, elem.Field(i).Name)
	}

	records := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		record := make([]string, 0, elem.NumField())
		for j := 0; j < elem.NumField(); j++ {
			record = append(record, cellString(row.Field(j)))
		}
		records = append(records, record)
	}
	return headers, records
}

func cellString(v reflect.Value) string {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, v.Index(i).String())
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v.Interface())
}
