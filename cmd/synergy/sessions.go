package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	Long:  "Prints every session in session.db_path, newest first, with its row count.",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
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

	infos, err := st.ListSessions()
	if err != nil {
		logger.Error("failed to list sessions", "error", err)
		return err
	}

	fmt.Printf("%-38s %-18s %s\n", "Session", "Created", "Rows")
	fmt.Println(strings.Repeat("─", 64))

	total := 0
	for _, info := range infos {
		fmt.Printf("%-38s %-18s %d\n", info.ID, info.CreatedAt.Local().Format("2006-01-02 15:04"), info.Rows)
		total += info.Rows
	}

	fmt.Printf("\nTotal: %d sessions, %d rows\n", len(infos), total)
	return nil
}
