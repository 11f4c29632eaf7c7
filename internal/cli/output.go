package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"production/internal/model"
)

// render writes v in the selected format; text falls back to textFn.
func render(w io.Writer, format string, v any, textFn func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		textFn(w)
		return nil
	}
}

func writeTemplate(w io.Writer, t model.TemplateRecord) {
	fmt.Fprintf(w, "template %s (%s), %d days, updated %s\n", t.ID, t.Name, t.TotalDays(), stamp(t.UpdatedAt))
	for i, s := range t.Stages {
		fmt.Fprintf(w, "  %d. %-20s %-10s %dd\n", i+1, s.Name, s.ID, s.Days)
	}
}

func writeOrder(w io.Writer, o model.OrderRecord) {
	fmt.Fprintf(w, "order %s, suppliers [%s], updated %s\n", o.OrderID, strings.Join(o.SelectedSupplierIDs, ", "), stamp(o.UpdatedAt))
	writeStages(w, o.Stages)
}

func writeStages(w io.Writer, stages []model.StageValue) {
	for i, s := range stages {
		line := fmt.Sprintf("  %d. %-20s %-10s %dd", i+1, s.Name, s.StageID, s.Days)
		if s.Status != "" {
			line += " " + s.Status
		}
		fmt.Fprintln(w, line)
	}
}

func writeOrderTable(w io.Writer, table model.OrderRecordTable) {
	if len(table) == 0 {
		fmt.Fprintln(w, "no order data")
		return
	}
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		o := table[id]
		fmt.Fprintf(w, "%s\tstages=%d\tsuppliers=%s\tupdated=%s\n",
			id, len(o.Stages), strings.Join(o.SelectedSupplierIDs, ","), stamp(o.UpdatedAt))
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

// readInput decodes JSON (or YAML) from path, "-" meaning stdin.
func readInput(path string, stdin io.Reader, v any) error {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Unmarshal(b, v)
	}
	return json.Unmarshal(b, v)
}
