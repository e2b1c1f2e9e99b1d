package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/dispatch"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/logger"
	"github.com/sdotee/desktop/internal/metrics"
	"github.com/sdotee/desktop/internal/repository"
	"github.com/sdotee/desktop/internal/repository/file"
	"github.com/sdotee/desktop/internal/repository/sqlite"
	"github.com/sdotee/desktop/internal/service"
	"github.com/sdotee/desktop/internal/transport/cli"
	"github.com/sdotee/desktop/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "see",
	Short:         "Share links, texts and files through S.EE",
	Long:          "Shorten URLs, publish texts and upload files with the S.EE service, keeping a local history of everything you share",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var domainsCmd = &cobra.Command{
	Use:       "domains [link|text|file]",
	Short:     "List the domains available to your account",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"link", "text", "file"},
	RunE:      runDomains,
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Short links",
}

var shortenCmd = &cobra.Command{
	Use:   "shorten [URL]",
	Short: "Shorten a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runShorten,
}

var linkDeleteCmd = &cobra.Command{
	Use:   "delete [DOMAIN] [SLUG]",
	Short: "Delete a short link",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteLink,
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Published texts",
}

var textCreateCmd = &cobra.Command{
	Use:   "create [CONTENT]",
	Short: "Publish a text from the arguments, a file or stdin",
	RunE:  runCreateText,
}

var textDeleteCmd = &cobra.Command{
	Use:   "delete [DOMAIN] [SLUG]",
	Short: "Delete a published text",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteText,
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Uploaded files",
}

var uploadCmd = &cobra.Command{
	Use:   "upload [PATH]",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete [DOMAIN] [KEY]",
	Short: "Delete an uploaded file",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteFile,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:       "set [KEY] [VALUE]",
	Short:     "Change one setting and save it",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE:      runConfigSet,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "see %s (commit %s, built %s, %s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log HTTP requests and responses")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write operation metrics to this file on exit")

	// Link flags
	shortenCmd.Flags().StringP("domain", "d", "", "Domain to shorten on (default from config)")
	shortenCmd.Flags().StringP("slug", "s", "", "Custom slug")
	shortenCmd.Flags().StringP("title", "t", "", "Title kept in local history")

	// Text flags
	textCreateCmd.Flags().StringP("title", "t", "", "Title")
	textCreateCmd.Flags().StringP("domain", "d", "", "Domain to publish on (default from config)")
	textCreateCmd.Flags().String("type", string(domain.TextTypePlain), "Text type: plain_text, source_code or markdown")
	textCreateCmd.Flags().StringP("file", "f", "", "Read the content from this file")

	linkCmd.AddCommand(shortenCmd, linkDeleteCmd, listCommand(domain.CategoryLink), clearCommand(domain.CategoryLink))
	textCmd.AddCommand(textCreateCmd, textDeleteCmd, listCommand(domain.CategoryText), clearCommand(domain.CategoryText))
	fileCmd.AddCommand(uploadCmd, fileDeleteCmd, listCommand(domain.CategoryFile), clearCommand(domain.CategoryFile))
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(domainsCmd, linkCmd, textCmd, fileCmd, configCmd, versionCmd)
}

func listCommand(kind domain.Category) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List local %s history", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			if page < 1 {
				return fmt.Errorf("page must be at least 1, got %d", page)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				switch kind {
				case domain.CategoryLink:
					a.commands.Links(page)
				case domain.CategoryText:
					a.commands.Texts(page)
				case domain.CategoryFile:
					a.commands.Files(page)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntP("page", "p", 1, "Page number")
	return cmd
}

func clearCommand(kind domain.Category) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Forget local %s history; nothing is deleted remotely", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.commands.Clear(ctx, kind)
			})
		},
	}
}

// app is everything a command needs, built from the resolved configuration
type app struct {
	log      logger.Logger
	store    *history.Store
	metrics  *metrics.Collector
	commands *cli.Commands
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadSavedConfig(cmd)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if !logger.ValidLevel(level) {
			return nil, fmt.Errorf("unknown log level %q", level)
		}
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func openRepository(cfg *config.Config) (repository.DocumentRepository, error) {
	switch cfg.History.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.HistoryPath())
	default:
		return file.New(cfg.HistoryPath())
	}
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	store, err := history.Load(ctx, repo, history.WithLogger(log))
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load history from %s: %w", repo.Location(), err)
	}
	log.Debug("history loaded",
		logger.String("backend", cfg.History.Backend),
		logger.String("location", repo.Location()))

	collector := metrics.New()
	dispatcher := dispatch.New(
		dispatch.WithLogger(log),
		dispatch.WithMetrics(collector),
	)
	manager := service.NewManager(dispatcher, store, cfg, service.WithLogger(log))

	return &app{
		log:      log,
		store:    store,
		metrics:  collector,
		commands: cli.NewCommands(manager, cmd.OutOrStdout()),
	}, nil
}

func (a *app) close(cmd *cobra.Command) {
	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := a.metrics.WriteToFile(path); err != nil {
			a.log.Warn("failed to write metrics", logger.String("path", path), logger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("error closing history", logger.Error(err))
	}
	_ = a.log.Sync()
}

// withApp builds the app, runs fn and tears the app down. Ctrl-C cancels
// in-flight requests.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(cmd)

	return fn(ctx, a)
}

func runDomains(cmd *cobra.Command, args []string) error {
	var category string
	if len(args) == 1 {
		category = args[0]
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.Domains(ctx, category)
	})
}

func runShorten(cmd *cobra.Command, args []string) error {
	domainName, _ := cmd.Flags().GetString("domain")
	slug, _ := cmd.Flags().GetString("slug")
	title, _ := cmd.Flags().GetString("title")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.Shorten(ctx, service.ShortenInput{
			URL:    args[0],
			Domain: domainName,
			Slug:   slug,
			Title:  title,
		})
	})
}

func runDeleteLink(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.DeleteLink(ctx, args[0], args[1])
	})
}

func runCreateText(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	domainName, _ := cmd.Flags().GetString("domain")
	typeName, _ := cmd.Flags().GetString("type")
	path, _ := cmd.Flags().GetString("file")

	textType, ok := domain.ParseTextType(typeName)
	if !ok {
		return fmt.Errorf("unknown text type %q (want plain_text, source_code or markdown)", typeName)
	}

	content, err := cli.ReadContent(args, path, pipedStdin(cmd))
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.CreateText(ctx, service.TextInput{
			Content: content,
			Title:   title,
			Domain:  domainName,
			Type:    textType,
		})
	})
}

// pipedStdin returns stdin unless it is an interactive terminal
func pipedStdin(cmd *cobra.Command) io.Reader {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return cmd.InOrStdin()
}

func runDeleteText(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.DeleteText(ctx, args[0], args[1])
	})
}

func runUpload(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.Upload(ctx, args[0])
	})
}

func runDeleteFile(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		return a.commands.DeleteFile(ctx, args[0], args[1])
	})
}

// the config commands work on the file as saved, without flag overrides
func loadSavedConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadSavedConfig(cmd)
	if err != nil {
		return err
	}
	return cli.NewCommands(nil, cmd.OutOrStdout()).ShowConfig(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadSavedConfig(cmd)
	if err != nil {
		return err
	}
	return cli.NewCommands(nil, cmd.OutOrStdout()).SetConfig(cfg, args[0], args[1])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
