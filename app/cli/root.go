package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wieku/danser-pp/app/database"
	"golang.org/x/term"
)

const (
	configName = ".ppcalc"
	envPrefix  = "PPCALC"
)

// All linker flags are set at build time
var (
	version = "dev"
	commit  = "none"
)

// app holds the state shared by the commands of one invocation
type app struct {
	v   *viper.Viper
	out io.Writer

	cacheMu     sync.Mutex
	cache       *database.Cache
	cacheOpened bool
}

// NewRootCommand builds the command tree with a fresh configuration
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "ppcalc",
		Short:         "Calculate osu! difficulty and performance",
		Long:          "ppcalc calculates star ratings, strains and performance points of osu!, osu!taiko, osu!catch and osu!mania beatmaps.",
		Version:       version + " (" + commit + ")",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./.ppcalc.yaml or $HOME/.ppcalc.yaml)")
	flags.BoolP("verbose", "v", false, "log calculation details")
	flags.String("format", "table", "output format: table or json")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("cache-backend", string(database.SQLite), "attribute cache backend: sqlite, mysql or postgresql")
	flags.String("cache-dsn", "", "attribute cache connection string (default is a file in the user cache directory)")
	flags.String("cache-table", database.DefaultTable, "attribute cache table")
	flags.Bool("no-cache", false, "disable the attribute cache")

	root.AddCommand(
		a.difficultyCommand(),
		a.performanceCommand(),
		a.strainsCommand(),
		a.attributesCommand(),
		a.replayCommand(),
		a.watchCommand(),
		a.cacheCommand(),
		a.batchCommand(),
	)

	return root
}

// Execute runs the command line and exits with a non-zero status on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	if configFile := a.v.GetString("config"); configFile != "" {
		a.v.SetConfigFile(configFile)
	} else {
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath("$HOME")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "failed to read config file")
		}
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetReportTimestamp(false)

	if a.v.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if a.v.GetBool("no-color") || !isTerminal(a.out) {
		color.NoColor = true
	}

	if cfgFile := a.v.ConfigFileUsed(); cfgFile != "" {
		log.Debug("Loaded config", "file", cfgFile)
	}

	return nil
}

func (a *app) close() error {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()

	if a.cache == nil {
		return nil
	}

	err := a.cache.Close()
	a.cache = nil

	return err
}

// openCache lazily connects to the attribute cache, nil when disabled or unavailable
func (a *app) openCache() *database.Cache {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()

	if a.cacheOpened || a.v.GetBool("no-cache") {
		return a.cache
	}

	a.cacheOpened = true

	backend, err := database.ParseBackend(a.v.GetString("cache-backend"))
	if err != nil {
		log.Warn("Attribute cache disabled", "err", err)
		return nil
	}

	cache, err := database.Open(backend, a.v.GetString("cache-dsn"), a.v.GetString("cache-table"))
	if err != nil {
		log.Warn("Attribute cache disabled", "err", err)
		return nil
	}

	a.cache = cache

	return cache
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
