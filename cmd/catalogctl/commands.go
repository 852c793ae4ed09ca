package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/opticatalog/internal/adapter/driven/github"
	"github.com/ericfisherdev/opticatalog/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/bootstrap"
	"github.com/ericfisherdev/opticatalog/internal/config"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// cli holds the state opened by the root command for its subcommands.
type cli struct {
	cfg     *config.Config
	stores  *bootstrap.Stores
	svc     *bootstrap.Services
	logger  *slog.Logger
	verbose bool
}

// rootCommand builds the command tree over c. Run it through execute so the
// storage is released even when a subcommand fails.
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administer the optical transceiver catalog",
		Long:          "Manage catalog records and the admin password using the storage configured by OPTICATALOG_* environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log service activity to stderr")

	root.AddCommand(
		c.newListCommand(),
		c.newGetCommand(),
		c.newAddCommand(),
		c.newUpdateCommand(),
		c.newDeleteCommand(),
		c.newFiltersCommand(),
		c.newPasswdCommand(),
		c.newImportCommand(),
	)
	return root
}

// execute runs root and then closes the stores. Cobra skips post-run hooks
// when RunE fails, so closing cannot live in one.
func (c *cli) execute(root *cobra.Command) error {
	err := root.Execute()
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	return err
}

func (c *cli) open(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelInfo
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	stores, err := bootstrap.OpenStores(cmd.Context(), cfg, c.logger)
	if err != nil {
		return err
	}
	c.stores = stores

	svc, err := bootstrap.NewServices(cmd.Context(), cfg, stores, c.logger)
	if err != nil {
		_ = stores.Close()
		return err
	}
	c.svc = svc
	return nil
}

func (c *cli) close() error {
	if c.stores == nil {
		return nil
	}
	stores := c.stores
	c.stores, c.svc = nil, nil
	return stores.Close()
}

func (c *cli) newListCommand() *cobra.Command {
	var filter model.Filter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transceivers, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := c.svc.Catalog.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return writeTable(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVar(&filter.FormFactor, "form-factor", "", "only this form factor")
	cmd.Flags().StringVar(&filter.DataRate, "data-rate", "", "only this data rate")
	cmd.Flags().StringVar(&filter.Connector, "connector", "", "only this connector")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only this status")
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "case-insensitive match on sku, name or description")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *cli) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SKU",
		Short: "Print one transceiver as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.svc.Catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("transceiver %s not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}
}

func (c *cli) newAddCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add --file record.json",
		Short: "Add the complete transceiver records in a JSON file (one object or an array)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := jsonfile.NewFileSource(file).Fetch(cmd.Context())
			if err != nil {
				return err
			}
			for i, t := range records {
				if err := t.ValidateComplete(); err != nil {
					return fmt.Errorf("record #%d: %w", i+1, err)
				}
			}
			for _, t := range records {
				ok, err := c.svc.Catalog.Add(cmd.Context(), t)
				if err != nil {
					return fmt.Errorf("add %s: %w", t.SKU, err)
				}
				if !ok {
					return fmt.Errorf("transceiver %s already exists", strings.TrimSpace(t.SKU))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", strings.TrimSpace(t.SKU))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the record(s)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) newUpdateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update SKU --file record.json",
		Short: "Replace a transceiver with the record in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := jsonfile.NewFileSource(file).Fetch(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) != 1 {
				return fmt.Errorf("%s must hold exactly one record, found %d", file, len(records))
			}

			check := records[0]
			if strings.TrimSpace(check.SKU) == "" {
				check.SKU = args[0]
			}
			if err := check.ValidateComplete(); err != nil {
				return err
			}

			ok, err := c.svc.Catalog.Update(cmd.Context(), args[0], records[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("transceiver %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the replacement record")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete SKU",
		Short: "Delete a transceiver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := c.svc.Catalog.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("transceiver %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) newFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show the distinct values offered by each catalog filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.svc.Catalog.FilterOptions(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "form_factor\t%s\n", strings.Join(opts.FormFactors, ", "))
			fmt.Fprintf(tw, "data_rate\t%s\n", strings.Join(opts.DataRates, ", "))
			fmt.Fprintf(tw, "connector\t%s\n", strings.Join(opts.Connectors, ", "))
			fmt.Fprintf(tw, "status\t%s\n", strings.Join(opts.Statuses, ", "))
			return tw.Flush()
		},
	}
}

func (c *cli) newPasswdCommand() *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "passwd --old CURRENT --new NEW",
		Short: "Change the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := application.ValidateNewPassword(newPassword); err != nil {
				return err
			}
			ok, err := c.svc.Auth.Change(cmd.Context(), oldPassword, newPassword)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("current password is incorrect")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "current admin password")
	cmd.Flags().StringVar(&newPassword, "new", "", "new admin password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func (c *cli) newImportCommand() *cobra.Command {
	var file, repo, path, ref string

	cmd := &cobra.Command{
		Use:   "import (--file records.json | --github owner/repo --path catalog.json [--ref main])",
		Short: "Bulk-add records from a JSON file or a GitHub repository",
		Long:  "Bulk-add records. Existing SKUs are skipped and invalid records are reported; neither aborts the run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var src driven.CatalogSource
			switch {
			case file != "":
				src = jsonfile.NewFileSource(file)
			default:
				ghSrc, err := githubadapter.NewSource(c.cfg.GitHubToken, repo, path, ref)
				if err != nil {
					return err
				}
				src = ghSrc
			}

			report, err := c.svc.Import.Import(cmd.Context(), src)
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "local JSON file")
	cmd.Flags().StringVar(&repo, "github", "", "GitHub repository as owner/repo")
	cmd.Flags().StringVar(&path, "path", "", "file path inside the GitHub repository")
	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit (default branch when empty)")
	cmd.MarkFlagsMutuallyExclusive("file", "github")
	cmd.MarkFlagsOneRequired("file", "github")
	cmd.MarkFlagsRequiredTogether("github", "path")
	return cmd
}

func printImportReport(w io.Writer, report application.ImportReport) {
	fmt.Fprintf(w, "source:  %s\n", report.Source)
	fmt.Fprintf(w, "added:   %d\n", len(report.Added))
	fmt.Fprintf(w, "skipped: %d\n", len(report.Skipped))
	for _, sku := range report.Skipped {
		fmt.Fprintf(w, "  %s (already exists)\n", sku)
	}
	fmt.Fprintf(w, "invalid: %d\n", len(report.Invalid))
	for _, label := range slices.Sorted(maps.Keys(report.Invalid)) {
		fmt.Fprintf(w, "  %s: %s\n", label, report.Invalid[label])
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, records []model.Transceiver) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tNAME\tFORM FACTOR\tRATE\tREACH\tCONNECTOR\tSTATUS")
	for _, t := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.SKU, t.Name, t.FormFactor, t.DataRate, t.Reach, t.Connector, t.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d transceiver(s)\n", len(records))
	return err
}
