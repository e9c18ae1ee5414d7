// Package output renders command results either as JSON for scripts or as
// colored text for people, following output.format.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/fatih/color"
	json "github.com/json-iterator/go"
)

type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var formats = []OutputFormat{FormatJSON, FormatTable, FormatText}

// Writer receives all command output. Tests swap it for a buffer.
var Writer io.Writer = color.Output

var (
	titleStyle   = color.New(color.Bold, color.FgCyan)
	labelStyle   = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	infoStyle    = color.New(color.FgCyan)
)

// GetOutputFormat returns output.format, treating anything unknown as text
func GetOutputFormat() OutputFormat {
	if f := OutputFormat(config.GetString("output.format")); ValidateOutputFormat(string(f)) {
		return f
	}
	return FormatText
}

func ValidateOutputFormat(format string) bool {
	for _, f := range formats {
		if string(f) == format {
			return true
		}
	}
	return false
}

// Render prints data as JSON in json mode and hands Writer to text otherwise
func Render(data any, text func(w io.Writer)) error {
	if GetOutputFormat() != FormatJSON {
		text(Writer)
		return nil
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(Writer, "%s\n", out)
	return err
}

// Field is one labelled value of a record
type Field struct {
	Label string
	Value any
}

// PrintRecord writes "Label: value" lines in order under an optional title
func PrintRecord(title string, fields []Field) {
	if title != "" {
		titleStyle.Fprintln(Writer, title)
	}
	for _, f := range fields {
		labelStyle.Fprint(Writer, f.Label+": ")
		fmt.Fprintln(Writer, f.Value)
	}
}

// PrintTable aligns rows into columns two spaces apart
func PrintTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Writer, 0, 0, 2, ' ', 0)
	labelStyle.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func PrintSuccess(format string, args ...any) { successStyle.Fprintf(Writer, format+"\n", args...) }
func PrintInfo(format string, args ...any)    { infoStyle.Fprintf(Writer, format+"\n", args...) }
