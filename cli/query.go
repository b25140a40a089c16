package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/gosnmp/gosnmp"
	"github.com/spf13/cobra"

	"github.com/geekxflood/ftpmib/mib"
)

type objectRow struct {
	Index   int    `json:"index" yaml:"index"`
	OID     string `json:"oid" yaml:"oid"`
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered MIB objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			var rows []objectRow
			for i, e := range rt.registry.All() {
				enabled := rt.registry.Enabled(i)
				if !all && !enabled {
					continue
				}
				rows = append(rows, objectRow{
					Index:   i,
					OID:     e.OID.String(),
					Name:    e.InstanceName,
					Type:    e.Type.String(),
					Enabled: enabled,
				})
			}

			return render(cmd.OutOrStdout(), opts.output, rows, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "INDEX\tOID\tNAME\tTYPE\tENABLED")
				for _, r := range rows {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", r.Index, r.OID, r.Name, r.Type, r.Enabled)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include objects of disabled modules")
	return cmd
}

// newBindingCommand builds get and next, which differ only in the
// handler call.
func newBindingCommand(opts *globalOptions, use, short string, query func(rt *runtime, oids ...string) []gosnmp.SnmpPDU) *cobra.Command {
	return &cobra.Command{
		Use:   use + " OID|NAME...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			oids := make([]string, 0, len(args))
			for _, arg := range args {
				oid, err := rt.resolve(arg)
				if err != nil {
					return err
				}
				oids = append(oids, oid)
			}
			return renderBindings(cmd.OutOrStdout(), opts.output, rt.bindings(query(rt, oids...)))
		},
	}
}

func newGetCommand(opts *globalOptions) *cobra.Command {
	return newBindingCommand(opts, "get", "Get object values", func(rt *runtime, oids ...string) []gosnmp.SnmpPDU {
		return rt.handler.Get(oids...)
	})
}

func newNextCommand(opts *globalOptions) *cobra.Command {
	return newBindingCommand(opts, "next", "Get the objects following the given OIDs", func(rt *runtime, oids ...string) []gosnmp.SnmpPDU {
		return rt.handler.GetNext(oids...)
	})
}

func newWalkCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "walk [OID|NAME]",
		Short: "Walk the objects below an OID (default: the whole module)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			root := mib.BaseOID.String()
			if len(args) == 1 {
				if root, err = rt.resolve(args[0]); err != nil {
					return err
				}
			}

			var pdus []gosnmp.SnmpPDU
			err = rt.handler.Walk(root, func(pdu gosnmp.SnmpPDU) error {
				pdus = append(pdus, pdu)
				return nil
			})
			if err != nil {
				return err
			}
			return renderBindings(cmd.OutOrStdout(), opts.output, rt.bindings(pdus))
		},
	}
}

type translation struct {
	Input string `json:"input" yaml:"input"`
	OID   string `json:"oid" yaml:"oid"`
	Name  string `json:"name" yaml:"name"`
}

func newTranslateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "translate OID|NAME...",
		Short: "Translate between numeric OIDs and object names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			rows := make([]translation, 0, len(args))
			var errs []error
			for _, arg := range args {
				oid, err := rt.resolve(arg)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				name, err := rt.translator.Translate(oid)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				rows = append(rows, translation{Input: arg, OID: oid, Name: name})
			}

			if err := render(cmd.OutOrStdout(), opts.output, rows, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "INPUT\tOID\tNAME")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Input, r.OID, r.Name)
				}
			}); err != nil {
				return err
			}
			return errors.Join(errs...)
		},
	}
}
