package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/synergy/internal/session"
	"github.com/amishk599/synergy/internal/sheet"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored session as XLSX",
	RunE:  runExport,
}

var exportOpts struct {
	sessionID string
	out       string
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.sessionID, "session", "", "session ID (see `synergy sessions`)")
	exportCmd.Flags().StringVar(&exportOpts.out, "out", sheet.ExportFileName, "export path")
	_ = exportCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	st, err := openSQLite(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer st.Close()

	sess, err := session.Resume(st, exportOpts.sessionID)
	if err != nil {
		logger.Error("failed to load session", "error", err)
		return err
	}
	if sess.Table().Empty() {
		fmt.Printf("Session %s has no rows; nothing exported.\n", sess.ID)
		return nil
	}

	if err := writeExport(exportOpts.out, sess.Table().Rows()); err != nil {
		logger.Error("export failed", "error", err)
		return err
	}
	fmt.Printf("Exported %d rows to %s\n", sess.Table().Len(), exportOpts.out)
	return nil
}
