package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/axondata/go-tika"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	config cliConfig   // merged file + flag configuration
	client *tika.Client

	flagConfigFilePath string // value of --config flag
	flagEndpoint       string // value of --endpoint flag
	flagVerbose        bool   // value of --verbose flag
)

// cliConfig is the optional YAML configuration file shape
type cliConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Version    string `yaml:"version"`
	StorageDir string `yaml:"storage_dir"`
	Translator string `yaml:"translator"`
	Verbose    bool   `yaml:"verbose"`
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is tika.yaml in the current directory")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Tika server endpoint (default "+tika.DefaultEndpoint+")")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")

	// never print messages
	rootCmd.SilenceErrors = true

	// parse the config, set up logging, build the client
	rootCmd.PersistentPreRunE = initTika

	configCmd.AddCommand(mimeTypesCmd, detectorsCmd, parsersCmd, parsersDetailsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("tika failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "tika",
	Short:        "Client for the standalone Apache Tika server",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version of the tika client library",
	Run: func(cmd *cobra.Command, args []string) {
		info := tika.GetVersion()
		fmt.Printf("go-tika %s (server %s)\n", info.Version, info.ServerVersion)
	},
}

func initTika(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	path := flagConfigFilePath
	if path == "" {
		if _, err := os.Stat("tika.yaml"); err == nil {
			path = "tika.yaml"
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &config); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	endpoint := firstOf(flagEndpoint, config.Endpoint, os.Getenv(tika.EnvServerEndpoint), tika.DefaultEndpoint)

	opts := []tika.Option{
		tika.WithLogger(logger),
		tika.WithVerbose(flagVerbose || config.Verbose),
	}
	if config.Version != "" {
		opts = append(opts, tika.WithVersion(config.Version))
	}
	if config.StorageDir != "" {
		opts = append(opts, tika.WithStorageDir(config.StorageDir))
	}
	if config.Translator != "" {
		opts = append(opts, tika.WithTranslator(tika.Translator(config.Translator)))
	}

	var err error
	client, err = tika.NewRemote(endpoint, opts...)
	return err
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "see how the server is configured",
}

var mimeTypesCmd = &cobra.Command{
	Use:   "mime-types",
	Short: "mime types known to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd, tika.ConfigMimeTypes)
	},
}

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "the server's detector tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd, tika.ConfigDetectors)
	},
}

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "the server's parser tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd, tika.ConfigParsers)
	},
}

var parsersDetailsCmd = &cobra.Command{
	Use:   "parsers-details",
	Short: "the server's parser tree with supported types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd, tika.ConfigParsersDetails)
	},
}

// printConfig dumps the raw JSON of a configuration resource
func printConfig(cmd *cobra.Command, endpoint tika.ConfigEndpoint) error {
	resp, err := client.GetJSON(cmd.Context(), endpoint.Path())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	_, err = io.Copy(os.Stdout, resp.Body)
	return err
}

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "detect the mime type of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFile(args[0], func(r io.Reader) error {
			mime, err := client.DetectMime(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Println(mime)
			return nil
		})
	},
}

var languageCmd = &cobra.Command{
	Use:   "language <file>",
	Short: "detect the language of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFile(args[0], func(r io.Reader) error {
			lang, err := client.DetectLanguage(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Println(lang)
			return nil
		})
	},
}

var (
	flagTranslateFrom string
	flagTranslateTo   string
)

var translateCmd = &cobra.Command{
	Use:   "translate <file>",
	Short: "translate a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFile(args[0], func(r io.Reader) error {
			translated, err := client.Translate(cmd.Context(), r, flagTranslateFrom, flagTranslateTo)
			if err != nil {
				return err
			}
			fmt.Print(translated)
			return nil
		})
	},
}

func init() {
	translateCmd.Flags().StringVar(&flagTranslateFrom, "from", "", "source language (detected by the server when empty)")
	translateCmd.Flags().StringVar(&flagTranslateTo, "to", "", "destination language")
	_ = translateCmd.MarkFlagRequired("to")

	serverCmd.Flags().StringVar(&flagServerAddr, "addr", tika.DefaultBindAddress, "bind address for the managed server")
	serverCmd.Flags().BoolVar(&flagServerWatch, "watch", false, "restart the server when its artifact changes on disk")
}

// withFile runs fn with the file's contents; "-" reads stdin
func withFile(path string, fn func(io.Reader) error) error {
	if path == "-" {
		return fn(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}
