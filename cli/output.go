package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gosnmp/gosnmp"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

// binding is one variable binding as printed by the query commands.
type binding struct {
	OID   string `json:"oid" yaml:"oid"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func (rt *runtime) bindings(pdus []gosnmp.SnmpPDU) []binding {
	out := make([]binding, 0, len(pdus))
	for _, pdu := range pdus {
		name, _ := rt.translator.Translate(pdu.Name)
		out = append(out, binding{
			OID:   strings.TrimPrefix(pdu.Name, "."),
			Name:  name,
			Type:  berName(pdu.Type),
			Value: displayValue(pdu.Value),
		})
	}
	return out
}

func displayValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func berName(t gosnmp.Asn1BER) string {
	switch t {
	case gosnmp.Integer:
		return "INTEGER"
	case gosnmp.OctetString:
		return "STRING"
	case gosnmp.ObjectIdentifier:
		return "OID"
	case gosnmp.Counter32:
		return "Counter32"
	case gosnmp.Gauge32:
		return "Gauge32"
	case gosnmp.TimeTicks:
		return "Timeticks"
	case gosnmp.Counter64:
		return "Counter64"
	case gosnmp.Null:
		return "NULL"
	case gosnmp.NoSuchObject:
		return "noSuchObject"
	case gosnmp.NoSuchInstance:
		return "noSuchInstance"
	case gosnmp.EndOfMibView:
		return "endOfMibView"
	default:
		return fmt.Sprintf("0x%02x", byte(t))
	}
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(w io.Writer, format string, v any, table func(*tabwriter.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func renderBindings(w io.Writer, format string, bindings []binding) error {
	return render(w, format, bindings, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "OID\tNAME\tTYPE\tVALUE")
		for _, b := range bindings {
			value := ""
			if b.Value != nil {
				value = fmt.Sprint(b.Value)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.OID, b.Name, b.Type, value)
		}
	})
}
