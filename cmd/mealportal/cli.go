package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/infrastructure/upstream"
	"github.com/pear651530/Meal-Provider/internal/pkg/config"
)

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Print the capabilities granted to each role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printRoles(cmd.OutOrStdout())
		},
	}
}

func printRoles(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tCLERK\tADMIN\tSUPER_ADMIN")
	roles := append([]domain.Role{domain.RoleEmployee}, domain.RoleHierarchy()...)
	for _, role := range roles {
		caps := domain.CapabilitiesFor(role)
		fmt.Fprintf(w, "%s\t%t\t%t\t%t\n", role, caps.IsClerk, caps.IsAdmin, caps.IsSuperAdmin)
	}
	return w.Flush()
}

func newReportCmd() *cobra.Command {
	var (
		adminURL string
		token    string
		period   string
		output   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download an analytics report from the admin service",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				return fmt.Errorf("missing token (flag --token or env MEALPORTAL_ADMIN_TOKEN)")
			}
			if adminURL == "" {
				cfg, err := config.LoadContext(cmd.Context(), ".env")
				if err != nil {
					return err
				}
				adminURL = cfg.Upstream.AdminURL
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParseReportPeriod(period)
			if err != nil {
				return err
			}

			client := upstream.NewAdminClient(adminURL, timeout, zerolog.Nop())
			body, err := client.AnalyticsReport(cmd.Context(), token, p)
			if err != nil {
				return err
			}
			defer body.Close()

			if output == "" {
				output = p.Filename()
			}
			if output == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), body)
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, body); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminURL, "admin-url", "", "admin service base URL (default from ADMIN_SERVICE_URL)")
	cmd.Flags().StringVar(&token, "token", os.Getenv("MEALPORTAL_ADMIN_TOKEN"), "admin bearer token (env MEALPORTAL_ADMIN_TOKEN)")
	cmd.Flags().StringVar(&period, "period", string(domain.ReportDaily), "daily, weekly or monthly")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default analytics-report-<period>.csv)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}
