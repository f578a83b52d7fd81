package main

import (
	_ "embed"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/careassist/care-reminder/pkg/api"
	"github.com/careassist/care-reminder/pkg/assistant"
	"github.com/careassist/care-reminder/pkg/audio"
	"github.com/careassist/care-reminder/pkg/config"
	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
	"github.com/careassist/care-reminder/pkg/platform"
	"github.com/careassist/care-reminder/pkg/session"
	"github.com/careassist/care-reminder/pkg/store"
	"github.com/careassist/care-reminder/pkg/ui/components"
)

const appID = "org.careassist.care-reminder"

//go:embed assets/medical-alert.wav
var alertSound []byte

//go:embed assets/icon.png
var iconPNG []byte

type CareAssistant struct {
	app    fyne.App
	cfg    *config.Config
	logger *logging.Logger
	icon   fyne.Resource

	client       *api.Client
	session      *session.Session
	settings     *store.SettingsStore
	appointments *store.AppointmentStore
	assistant    *assistant.Assistant
	player       *audio.Player

	authWindow *AuthWindow
	dashboard  *Dashboard
}

func main() {
	cfg, err := config.Load(os.Getenv("CARE_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ca := &CareAssistant{
		app:    app.NewWithID(appID),
		cfg:    cfg,
		logger: logging.New(cfg.Log.Level),
	}

	if err := ca.initialize(); err != nil {
		ca.logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ca.run()
}

func (ca *CareAssistant) initialize() error {
	ca.icon = fyne.NewStaticResource("icon.png", iconPNG)
	ca.app.SetIcon(ca.icon)

	ca.settings = store.NewSettingsStore(ca.app.Preferences())
	prefs := ca.settings.Load()
	ca.applyTheme(prefs)

	// Sync autostart state with the saved preference on startup
	if err := setupAutostart(prefs.AutoStart, ca.logger); err != nil {
		ca.logger.Warn("failed to set up autostart", "error", err)
	}

	player, err := audio.NewPlayer(alertSound, ca.logger.With("component", "audio"))
	if err != nil {
		return fmt.Errorf("load alert sound: %w", err)
	}
	ca.player = player

	ca.session = session.New(ca.app.Preferences())
	ca.client = api.NewClient(ca.cfg.API.BaseURL,
		api.WithTimeout(ca.cfg.API.Timeout),
		api.WithTokenSource(ca.session.Token),
		api.WithLogger(ca.logger.With("component", "api")),
	)
	ca.appointments = store.NewAppointmentStore(ca.client,
		store.WithSnooze(ca.cfg.Reminder.Snooze),
		store.WithLogger(ca.logger.With("component", "store")),
	)
	ca.appointments.SetOnUpdate(ca.appointmentsChanged)
	ca.assistant = assistant.New(ca.client, ca.logger.With("component", "assistant"))

	ca.setupSystemTray()

	if ca.session.Authenticated() {
		ca.showDashboard()
	} else {
		ca.showLogin()
	}
	return nil
}

func (ca *CareAssistant) run() {
	ca.app.Lifecycle().SetOnStarted(func() {
		platform.KeepOutOfDock()
	})
	ca.app.Run()
	ca.shutdown()
}

func (ca *CareAssistant) showLogin() {
	if ca.authWindow == nil {
		ca.authWindow = NewAuthWindow(ca)
	}
	ca.authWindow.Show()
}

func (ca *CareAssistant) showDashboard() {
	if !ca.session.Authenticated() {
		ca.showLogin()
		return
	}
	if ca.authWindow != nil {
		ca.authWindow.Close()
		ca.authWindow = nil
	}

	if ca.dashboard == nil {
		ca.dashboard = NewDashboard(ca)
		ca.dashboard.Start()
	}
	ca.dashboard.Show()
	ca.updateSystemTrayMenu()
}

func (ca *CareAssistant) logout() {
	ca.session.Clear()
	if ca.dashboard != nil {
		ca.dashboard.Close()
		ca.dashboard = nil
	}
	ca.appointments.Reset()
	ca.logger.Info("logged out")

	ca.showLogin()
	ca.updateSystemTrayMenu()
}

// appointmentsChanged is the store's update hook; it may run on any goroutine
func (ca *CareAssistant) appointmentsChanged() {
	appts := ca.appointments.Appointments()
	fyne.Do(func() {
		if ca.dashboard != nil {
			ca.dashboard.appointmentsChanged(appts)
		}
		ca.updateSystemTrayMenu()
	})
}

func (ca *CareAssistant) updateSettings(change func(*models.Settings)) {
	prefs := ca.settings.Load()
	change(&prefs)
	ca.settings.Save(prefs)
	ca.logger.Info("settings saved", "large_text", prefs.LargeText, "high_contrast", prefs.HighContrast, "auto_start", prefs.AutoStart)
	fyne.Do(func() { ca.applyTheme(prefs) })
}

func (ca *CareAssistant) applyTheme(prefs models.Settings) {
	ca.app.Settings().SetTheme(components.NewAccessibleTheme(prefs.LargeText, prefs.HighContrast))
}

func (ca *CareAssistant) quit() {
	ca.app.Quit()
}

func (ca *CareAssistant) shutdown() {
	if ca.dashboard != nil {
		ca.dashboard.engine.Stop()
	}
	ca.player.Stop()
}
