package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/synergy/internal/batch"
	"github.com/amishk599/synergy/internal/model"
	"github.com/amishk599/synergy/internal/session"
	"github.com/amishk599/synergy/internal/sheet"
	"github.com/amishk599/synergy/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate paragraphs for a company file",
	Long: "Processes one company file against the firm description, appends the results to\n" +
		"the session table, prints them and exports the table as XLSX.",
	RunE: runRun,
}

var runOpts struct {
	companies   string
	firm        string
	role        string
	template    string
	out         string
	sessionID   string
	keepPartial bool
	dryRun      bool
	quiet       bool
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.companies, "companies", "", "company file (.csv or .xlsx) with Company Name and Description columns")
	f.StringVar(&runOpts.firm, "firm", "", "plain-text file describing the firm")
	f.StringVar(&runOpts.role, "role", "", "role label for the system message (default from config)")
	f.StringVar(&runOpts.template, "template", "", "prompt template (default from config)")
	f.StringVar(&runOpts.out, "out", sheet.ExportFileName, "export path")
	f.StringVar(&runOpts.sessionID, "session", "", "append to an existing session (requires session.db_path)")
	f.BoolVar(&runOpts.keepPartial, "keep-partial", false, "keep rows generated before a completion failure")
	f.BoolVar(&runOpts.dryRun, "dry-run", false, "use the echo provider; no API calls")
	f.BoolVar(&runOpts.quiet, "quiet", false, "no spinner")
	_ = runCmd.MarkFlagRequired("companies")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	if runOpts.dryRun {
		logger.Info("dry-run mode enabled, no completion calls will be made")
		cfg.AI.Provider = "echo"
	}
	if cmd.Flags().Changed("keep-partial") {
		cfg.Batch.KeepPartial = runOpts.keepPartial
	}
	if runOpts.role != "" {
		cfg.Prompt.Role = runOpts.role
	}
	if runOpts.template != "" {
		cfg.Prompt.Template = runOpts.template
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return err
	}

	records, err := sheet.ReadCompaniesFile(runOpts.companies)
	if err != nil {
		logger.Error("failed to read companies", "error", err)
		return err
	}
	firm, err := sheet.ReadFirmDescriptionFile(runOpts.firm)
	if err != nil {
		logger.Error("failed to read firm description", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completer, err := setupCompleter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up completion provider", "error", err)
		return err
	}
	n := setupNotifier(cfg, &http.Client{Timeout: cfg.AI.Timeout}, logger)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer closeStore()

	sess, err := openSession(st, runOpts.sessionID)
	if err != nil {
		logger.Error("failed to open session", "error", err)
		return err
	}

	proc := newProcessor(cfg, completer, n, logger)
	var (
		next   session.Table
		report batch.Report
		perr   error
	)
	work := func(ctx context.Context) error {
		next, report, perr = proc.Process(ctx, records, firm, promptFromConfig(cfg), sess.Table())
		return nil
	}
	if runOpts.quiet {
		_ = work(ctx)
	} else if err := tui.RunLoader(ctx, fmt.Sprintf("Generating %d paragraphs", len(records)), work); err != nil {
		logger.Error("batch interrupted", "error", err)
		return err
	}

	if err := sess.Commit(next); err != nil {
		logger.Error("failed to save session", "error", err)
		return err
	}

	printRows(os.Stdout, report.Rows)

	if !sess.Table().Empty() {
		if err := writeExport(runOpts.out, sess.Table().Rows()); err != nil {
			logger.Error("export failed", "error", err)
			return err
		}
		fmt.Printf("\nExported %d rows to %s\n", sess.Table().Len(), runOpts.out)
	}
	fmt.Printf("Session: %s\n", sess.ID)

	if perr != nil {
		logger.Error("batch failed", "error", perr)
		return perr
	}
	return nil
}

func printRows(w io.Writer, rows []model.ResultRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No rows generated.")
		return
	}
	fmt.Fprintf(w, "%-25s %s\n", "Company Name", "Personalized Section")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, r := range rows {
		fmt.Fprintf(w, "%-25s %s\n", r.CompanyName, strings.Join(strings.Fields(r.PersonalizedSection), " "))
	}
}

func writeExport(path string, rows []model.ResultRow) error {
	data, err := sheet.Export(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
