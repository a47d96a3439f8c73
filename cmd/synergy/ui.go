package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/amishk599/synergy/internal/model"
	"github.com/amishk599/synergy/internal/notifier"
	"github.com/amishk599/synergy/internal/sheet"
	"github.com/amishk599/synergy/internal/store"
	"github.com/amishk599/synergy/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Interactive form (TUI)",
	Long:  "Edit the role and template, point at the input files, generate, browse and export.",
	RunE:  runUI,
}

var uiOpts struct {
	companies string
	firm      string
	out       string
	sessionID string
}

func init() {
	f := uiCmd.Flags()
	f.StringVar(&uiOpts.companies, "companies", "", "initial company file path")
	f.StringVar(&uiOpts.firm, "firm", "", "initial firm description path")
	f.StringVar(&uiOpts.out, "out", sheet.ExportFileName, "export path for ctrl+s")
	f.StringVar(&uiOpts.sessionID, "session", "", "resume a session instead of choosing one")
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return err
	}

	// Anything logged while the alt screen is up corrupts the display.
	silent := silentLogger()

	completer, err := setupCompleter(cmd.Context(), cfg, silent)
	if err != nil {
		logger.Error("failed to set up completion provider", "error", err)
		return err
	}

	collector := notifier.NewCollector()
	notifiers := notifier.Multi{collector}
	if cfg.Notification.Type == "slack" {
		notifiers = append(notifiers, setupNotifier(cfg, &http.Client{Timeout: cfg.AI.Timeout}, silent))
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer closeStore()

	sessionID, ok, err := chooseSession(st, uiOpts.sessionID)
	if err != nil {
		logger.Error("session picker failed", "error", err)
		return err
	}
	if !ok {
		return nil
	}
	sess, err := openSession(st, sessionID)
	if err != nil {
		logger.Error("failed to open session", "error", err)
		return err
	}

	err = tui.RunApp(tui.AppConfig{
		Runner:        newProcessor(cfg, completer, notifiers, silent),
		Notices:       collector,
		Session:       sess,
		Prompt:        promptFromConfig(cfg),
		CompaniesPath: uiOpts.companies,
		FirmPath:      uiOpts.firm,
		OutPath:       uiOpts.out,
	})
	if err != nil {
		logger.Error("tui error", "error", err)
		return err
	}

	fmt.Printf("Session %s: %d rows\n", sess.ID, sess.Table().Len())
	return nil
}

// chooseSession returns the session to open. An explicit id wins; with a
// SQLite store the user picks from stored sessions. "" means a new session.
// ok is false when the user quit the picker.
func chooseSession(st model.SessionStore, id string) (string, bool, error) {
	if id != "" {
		return id, true, nil
	}
	sqlStore, isSQL := st.(*store.SQLiteStore)
	if !isSQL {
		return "", true, nil
	}
	infos, err := sqlStore.ListSessions()
	if err != nil {
		return "", false, err
	}
	choice, err := tui.RunSessionPicker(infos)
	if err != nil {
		return "", false, err
	}
	switch choice {
	case tui.PickQuit:
		return "", false, nil
	case tui.PickNew:
		return "", true, nil
	default:
		return infos[choice].ID, true, nil
	}
}
