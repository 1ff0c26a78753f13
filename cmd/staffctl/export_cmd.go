package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/staff-registry/internal/app"
	"github.com/spec-kit/staff-registry/internal/domain"
	"github.com/spec-kit/staff-registry/internal/service"
)

func newExportCmd() *cobra.Command {
	var (
		date     string
		role     string
		location string
		status   string
		query    string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the staff listing as of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("invalid --format %q: want csv or xlsx", format)
			}
			var day time.Time
			if date != "" {
				d, err := domain.ParseDay(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				day = d
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			services := app.NewServices(app.PostgresStores(e.pg.PoolHandle()), service.NewClock(e.cfg.App.Location()), e.logger, nil)
			entries, filter, err := services.Roster.ListStaffAsOf(cmd.Context(), service.RosterQuery{
				Day:          day,
				RoleCode:     role,
				LocationCode: location,
				Status:       status,
				Query:        query,
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = service.ExportFilename(filter.Day, format)
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "xlsx" {
				buf, err := service.BuildXLSX(entries)
				if err != nil {
					return err
				}
				if _, err := buf.WriteTo(w); err != nil {
					return err
				}
			} else if err := service.WriteCSV(w, entries); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d row(s) to %s\n", len(entries), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "As-of date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&role, "role", "", "Role code filter")
	cmd.Flags().StringVar(&location, "location", "", "Location code filter")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	cmd.Flags().StringVar(&query, "q", "", "Substring match on name or mobile")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file, - for stdout (default staff_<date>.<format>)")
	return cmd
}
