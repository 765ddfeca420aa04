package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/occhealth/occhealth/internal/config"
	"github.com/occhealth/occhealth/internal/domain/medicalreport"
	"github.com/occhealth/occhealth/internal/platform/db"
	"github.com/occhealth/occhealth/internal/platform/export"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with medical report files",
	}
	cmd.AddCommand(reportNormalizeCmd())
	cmd.AddCommand(reportExportCmd())
	cmd.AddCommand(reportImportCmd())
	return cmd
}

func readReportFile(path string) (*medicalreport.RawMedicalReport, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := medicalreport.ParseRaw(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// writeNormalized prints report as indented JSON or as YAML. The YAML form
// is converted from the JSON encoding so both use the same field names.
func writeNormalized(w io.Writer, report *medicalreport.NormalizedReport, format string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "", "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}

func reportNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the executive view of a raw report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			format, _ := cmd.Flags().GetString("format")

			raw, err := readReportFile(path)
			if err != nil {
				return err
			}
			return writeNormalized(cmd.OutOrStdout(), medicalreport.Assemble(raw), format)
		},
	}
	cmd.Flags().String("file", "", "Path to a raw report JSON file")
	cmd.Flags().String("format", "json", "Output format: json or yaml")
	return cmd
}

func reportExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a raw report file as an executive workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			raw, err := readReportFile(path)
			if err != nil {
				return err
			}
			data, err := export.ExecutiveWorkbook(medicalreport.Assemble(raw))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes).\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a raw report JSON file")
	cmd.Flags().String("out", "", "Destination .xlsx path")
	return cmd
}

// buildImport validates the import flags and returns the row to store.
func buildImport(raw *medicalreport.RawMedicalReport, employee, date string) (*medicalreport.StoredReport, error) {
	stored := &medicalreport.StoredReport{Payload: *raw}
	if employee != "" {
		id, err := uuid.Parse(employee)
		if err != nil {
			return nil, fmt.Errorf("invalid --employee: %w", err)
		}
		stored.EmployeeID = &id
	}
	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("--date must be YYYY-MM-DD")
		}
		stored.ReportDate = &t
	}
	return stored, nil
}

func reportImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a raw report file in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			employee, _ := cmd.Flags().GetString("employee")
			date, _ := cmd.Flags().GetString("date")

			raw, err := readReportFile(path)
			if err != nil {
				return err
			}
			stored, err := buildImport(raw, employee, date)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := medicalreport.NewService(medicalreport.NewRawReportRepoPG(pool), zerolog.Nop())
			if err := svc.CreateReport(ctx, stored); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported report %s\n", stored.ID)
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a raw report JSON file")
	cmd.Flags().String("employee", "", "Employee UUID")
	cmd.Flags().String("date", "", "Report date (YYYY-MM-DD)")
	return cmd
}
