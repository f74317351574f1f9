package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/fang"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/guard"
	"github.com/decktui/deck-tui/internal/profile"
	"github.com/decktui/deck-tui/internal/session"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/decktui/deck-tui/internal/surface"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
	cfgFile        string
	profileFlag    string
	exportPath     string
	passphrase     string

	rootCmd = &cobra.Command{
		Use:   "deck-tui",
		Short: "Multi column deck for x.com",
		Long:  `deck-tui - A terminal deck presenting multiple x.com timelines side by side with per column auto refresh`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about deck-tui",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfiles,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the current profile's session and cookies to a file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	importCmd = &cobra.Command{
		Use:   "import",
		Short: "Import a previously exported profile bundle",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
)

var errApp = errors.New("application error")

// resolveProfile prefers the --profile flag over the configured profile and
// falls back to "default" when neither is set.
func resolveProfile(flagValue string, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}

	return "default"
}

func main() {
	configPath := config.Path(config.DefaultConfigName)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", configPath,
		"Config file path")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "",
		"Profile to use, overrides the configured one")
	exportCmd.Flags().StringVar(&exportPath, "out", "deck-profile.json", "Output file path")
	exportCmd.Flags().StringVar(&passphrase, "passphrase", "", "Seal the export with this passphrase")
	importCmd.Flags().StringVar(&exportPath, "in", "deck-profile.json", "Input file path")
	importCmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase for sealed exports")
	rootCmd.AddCommand(versionCmd, profilesCmd, exportCmd, importCmd)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("deck-tui - Terminal deck for x.com\n\n") //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)          //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)           //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)             //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion)      //nolint:forbidigo
}

// run is the main entry point of deck-tui.
func run(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// If PROFILE is set, it will be used as the output file path for the profiler.
	if len(os.Getenv("PROFILE")) > 0 {
		f, err := os.Create(os.Getenv("PROFILE"))
		if err != nil {
			return errors.Join(err, errApp)
		}

		if errStart := pprof.StartCPUProfile(f); errStart != nil {
			return errors.Join(errStart, errApp)
		}
		defer pprof.StopCPUProfile()
	}

	// Make sure our config & data homes exist.
	if err := os.MkdirAll(path.Join(xdg.ConfigHome, config.ConfigDirName), 0o750); err != nil {
		return errors.Join(err, errApp)
	}
	if err := os.MkdirAll(path.Join(xdg.DataHome, config.ConfigDirName), 0o750); err != nil {
		return errors.Join(err, errApp)
	}

	configUpdates := make(chan config.Config)

	loader := config.NewLoader(configUpdates)
	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return errors.Join(errConfig, errApp)
	}
	userConfig.Profile = resolveProfile(profileFlag, userConfig.Profile)

	// Setup file based logger. This is very useful for us as our console is taken over by the ui.
	logFile, errLogger := config.LoggerInit(config.DefaultLogName, slog.LevelDebug)
	if errLogger != nil {
		return errors.Join(errLogger, errApp)
	}

	defer func(closer io.Closer) {
		if err := closer.Close(); err != nil {
			slog.Error("Failed to close log file", slog.String("error", err.Error()))
		}
	}(logFile)

	slog.Info("Starting deck-tui", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", runtime.Version()))

	// Setup the sqlite database system.
	database, errDB := store.Open(ctx, config.PathData(config.DefaultDBName), true)
	if errDB != nil {
		return errors.Join(errDB, errApp)
	}

	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Error closing database", slog.String("error", err.Error()))
		}
	}()

	deckStore := store.New(database)

	// Each profile gets its own persistent cookie jar.
	jar, errJar := profile.NewJar()
	if errJar != nil {
		return errors.Join(errJar, errApp)
	}

	cookies, errCookies := deckStore.Cookies(ctx, userConfig.Profile)
	if errCookies != nil {
		return errors.Join(errCookies, errApp)
	}
	jar.Restore(cookies)

	navGuard := guard.New(userConfig.AllowedDomains, userConfig.FocusMarkers)
	columns := deck.New(navGuard, func() deck.Surface {
		return surface.New(jar, config.DefaultHTTPTimeout, userConfig.UserAgent)
	})
	defer columns.Close()

	manager := session.NewManager(deckStore, userConfig.Profile)

	app := NewApp(userConfig, columns, manager, jar, deckStore, configUpdates)

	columns.OnVisit(app.recordVisit)

	if errRestore := app.restoreSession(ctx); errRestore != nil {
		slog.Warn("Failed to restore session", slog.String("error", errRestore.Error()))
	}

	done := make(chan any)

	deckUI := app.createUI(ctx, loader)
	columns.Subscribe(func(state deck.State) {
		deckUI.Send(state)
	})

	go func() {
		if err := deckUI.Run(); err != nil {
			slog.Error("Failed to run UI", slog.String("error", err.Error()))
		}

		done <- "bye"
	}()

	app.Start(ctx, done)

	return nil
}

func runProfiles(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, errDB := store.Open(ctx, config.PathData(config.DefaultDBName), true)
	if errDB != nil {
		return errors.Join(errDB, errApp)
	}
	defer database.Close()

	profiles, errProfiles := store.New(database).Profiles(ctx)
	if errProfiles != nil {
		return errors.Join(errProfiles, errApp)
	}

	if len(profiles) == 0 {
		fmt.Println("No stored profiles") //nolint:forbidigo

		return nil
	}

	for _, name := range profiles {
		fmt.Println(name) //nolint:forbidigo
	}

	return nil
}

func runExport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	loader := config.NewLoader(make(chan config.Config))
	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return errors.Join(errConfig, errApp)
	}
	userConfig.Profile = resolveProfile(profileFlag, userConfig.Profile)

	database, errDB := store.Open(ctx, config.PathData(config.DefaultDBName), true)
	if errDB != nil {
		return errors.Join(errDB, errApp)
	}
	defer database.Close()

	deckStore := store.New(database)

	snapshot, errLoad := session.NewManager(deckStore, userConfig.Profile).Load(ctx)
	if errLoad != nil {
		return errors.Join(errLoad, errApp)
	}

	cookies, errCookies := deckStore.Cookies(ctx, userConfig.Profile)
	if errCookies != nil {
		return errors.Join(errCookies, errApp)
	}

	if errExport := session.Export(exportPath, session.ExportFile{Session: snapshot, Cookies: cookies}, passphrase); errExport != nil {
		return errors.Join(errExport, errApp)
	}

	fmt.Printf("Exported profile %q to %s\n", userConfig.Profile, exportPath) //nolint:forbidigo

	return nil
}

func runImport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	bundle, errImport := session.Import(exportPath, passphrase)
	if errImport != nil {
		return errors.Join(errImport, errApp)
	}

	database, errDB := store.Open(ctx, config.PathData(config.DefaultDBName), true)
	if errDB != nil {
		return errors.Join(errDB, errApp)
	}
	defer database.Close()

	deckStore := store.New(database)

	targetProfile := resolveProfile(profileFlag, bundle.Session.Profile)

	if errSave := session.NewManager(deckStore, targetProfile).Save(ctx, bundle.Session); errSave != nil {
		return errors.Join(errSave, errApp)
	}

	if errCookies := deckStore.SaveCookies(ctx, targetProfile, bundle.Cookies); errCookies != nil {
		return errors.Join(errCookies, errApp)
	}

	fmt.Printf("Imported profile %q from %s\n", targetProfile, exportPath) //nolint:forbidigo

	return nil
}
