package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"landcheck/projection"
)

func projectCmd() *cobra.Command {
	var (
		perches float64
		name    string
		pdfPath string
		locale  string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the investment projection for a parcel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := projection.Project(perches)
			if err != nil {
				return err
			}
			f := projection.NewFormatter(locale)

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, l := range f.Lines(rep) {
				fmt.Fprintf(tw, "%s\t%s\n", l.Label, l.Value)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if pdfPath == "" {
				return nil
			}
			doc, err := projection.NewPDFExporter(f).Export(cmd.Context(), rep, name)
			if err != nil {
				return errors.Join(projection.ErrExportFailed, err)
			}
			if err := os.WriteFile(pdfPath, doc.Body, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(out, "Wrote %s\n", pdfPath)
			return nil
		},
	}
	cmd.Flags().Float64Var(&perches, "perches", 0, "land size in perches")
	cmd.Flags().StringVar(&name, "name", projection.DefaultCustomerName, "customer name printed on the report")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the report as a PDF to this file")
	cmd.Flags().StringVar(&locale, "locale", "en", "locale used for number formatting")
	_ = cmd.MarkFlagRequired("perches")
	return cmd
}
