package helper

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

// Render writes obj as indented JSON in JSON mode, or calls table
// otherwise.
func (s *Session) Render(obj any, table func(w io.Writer)) error {
	return Render(s.out, s.json, obj, table)
}

func Render(w io.Writer, jsonMode bool, obj any, table func(w io.Writer)) error {
	if jsonMode {
		return WriteJSON(w, obj)
	}
	table(w)
	return nil
}

// JSONOutput validates the output flag and reports whether JSON was
// selected.
func JSONOutput(cmd *cli.Command) (bool, error) {
	switch output := cmd.String(outputCLIFlag); output {
	case OutputTable:
		return false, nil
	case OutputJSON:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported output format %q, expected table or json", output)
	}
}

func WriteJSON(w io.Writer, obj any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(obj)
}

func WriteTable(w io.Writer, data pterm.TableData) {
	body, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	_, _ = fmt.Fprintln(w, body)
}

func WriteKV(w io.Writer, in []string) {
	_, _ = fmt.Fprintln(w, FormatKV(in))
}

func WriteSection(w io.Writer, title string) {
	_, _ = fmt.Fprint(w, pterm.DefaultSection.Sprint(title))
}
