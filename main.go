// Package main provides the entry point for the Ambiente Stereo CLI player.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Tecnopai/ambeinte-stereo-884-sub000/news"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/radio/engines/beepengine"
	"github.com/Tecnopai/ambeinte-stereo-884-sub000/ui"
)

const stationName = "Ambiente Stereo 88.4"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	streamURL  string
	volume     float64
	feedURL    string
	noNews     bool
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "ambiente",
		Short: "Listen to Ambiente Stereo 88.4 from your terminal",
		Long: paragraph(
			fmt.Sprintf("\nTune into %s: live stream, station news, and nothing else.", keyword(stationName)),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// radioConfig builds the coordinator configuration from Viper state.
func radioConfig() radio.Config {
	cfg := radio.DefaultConfig()
	cfg.StreamURL = streamURL
	cfg.InitialVolume = volume

	if n := viper.GetInt("reconnect.max_retries"); n > 0 {
		cfg.MaxRetries = n
	}
	if d := viper.GetDuration("reconnect.delay"); d > 0 {
		cfg.RetryDelay = d
	}
	if d := viper.GetDuration("reconnect.max_delay"); d > 0 {
		cfg.MaxRetryDelay = d
	}
	if d := viper.GetDuration("connect_timeout"); d > 0 {
		cfg.ConnectTimeout = d
	}
	if d := viper.GetDuration("notice_duration"); d > 0 {
		cfg.NoticeDuration = d
	}
	return cfg
}

func validateOptions(_ *cobra.Command) error {
	streamURL = viper.GetString("url")
	volume = viper.GetFloat64("volume")
	feedURL = viper.GetString("feed.url")
	noNews = viper.GetBool("no_news")
	mouse = viper.GetBool("mouse")

	if err := radioConfig().Validate(); err != nil {
		return err
	}
	return nil
}

func execute(*cobra.Command, []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("ambiente needs a terminal to run")
	}

	engine := beepengine.New()
	coord, err := radio.Init(radioConfig(), engine, nil)
	if err != nil {
		return fmt.Errorf("unable to start playback: %w", err)
	}
	defer func() {
		if err := coord.Shutdown(); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	var feed *news.Client
	if !noNews && feedURL != "" {
		feed = news.NewClient(news.Config{
			BaseURL: feedURL,
			PerPage: viper.GetInt("feed.per_page"),
		})
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.StationName = stationName
	cfg.EnableMouse = mouse
	cfg.FeedPageSize = viper.GetInt("feed.per_page")

	if _, err := ui.NewProgram(cfg, coord, feed).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&streamURL, "url", "u", "", "stream URL override")
	rootCmd.Flags().Float64VarP(&volume, "volume", "v", 0.8, "initial volume (0.0 to 1.0)")
	rootCmd.Flags().StringVar(&feedURL, "feed", "", "news feed site URL override")
	rootCmd.Flags().BoolVar(&noNews, "no-news", false, "disable the news pane")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("url", rootCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("feed.url", rootCmd.Flags().Lookup("feed"))
	_ = viper.BindPFlag("no_news", rootCmd.Flags().Lookup("no-news"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("url", "https://stream.ambientestereo.fm/live")
	viper.SetDefault("volume", 0.8)
	viper.SetDefault("feed.url", "https://ambientestereo.fm")
	viper.SetDefault("feed.per_page", 10)
	viper.SetDefault("no_news", false)

	// Reconnection defaults
	viper.SetDefault("reconnect.max_retries", 5)
	viper.SetDefault("reconnect.delay", 3*time.Second)
	viper.SetDefault("reconnect.max_delay", 15*time.Second)
	viper.SetDefault("connect_timeout", 20*time.Second)
	viper.SetDefault("notice_duration", 3*time.Second)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "ambiente")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "ambiente")}, dirs...)
	}

	if c := os.Getenv("AMBIENTE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("ambiente")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ambiente")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "ambiente.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
