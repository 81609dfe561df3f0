// Package cli provides the bestbefore command-line client. It hosts the
// inventory core (freshness classification, OCR reconciliation, optimistic
// favorites and the dashboard view) on top of the inventory API.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlvinMun/bestbeforeai/config"
	"github.com/AlvinMun/bestbeforeai/internal/domain"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/api"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/session"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAuth       = 2
	ExitAPI        = 3
	ExitInternal   = 4
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	clock  func() time.Time

	// Global flags
	configPath  string
	endpoint    string
	sessionPath string
	jsonOutput  bool
	quiet       bool
	debug       bool
}

// New creates a CLI bound to the process's standard streams.
func New() *CLI {
	return NewWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewWithIO creates a CLI reading prompts from in and writing to out and errOut.
func NewWithIO(in io.Reader, out, errOut io.Writer) *CLI {
	cli := &CLI{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		clock:  time.Now,
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// SetArgs overrides the arguments (os.Args[1:] by default).
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute(ctx context.Context) int {
	if err := c.rootCmd.ExecuteContext(ctx); err != nil {
		c.errorf("Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return ExitAuth
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrIncompleteForm),
		errors.Is(err, domain.ErrInvalidTab),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrEmptyUpload):
		return ExitValidation
	case errors.Is(err, domain.ErrAPIFailure),
		errors.Is(err, domain.ErrOCRFailure):
		return ExitAPI
	}
	return ExitInternal
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bestbefore",
		Short: "BestBefore - track what is in your fridge before it expires",
		Long: `BestBefore keeps an inventory of perishable items and tells you what is
expired, what expires within three days, and what is still safe.

Photograph a label or receipt and 'bestbefore scan' reads the product name and
expiry date from it for you to confirm.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	cmd.SetOut(c.out)
	cmd.SetErr(c.errOut)

	// Global flags
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./config.yaml)")
	cmd.PersistentFlags().StringVar(&c.endpoint, "endpoint", "", "inventory API base URL")
	cmd.PersistentFlags().StringVar(&c.sessionPath, "session", "", "session file (default: ~/.bestbefore/session.yaml)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.quiet, "quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(c.newRegisterCmd())
	cmd.AddCommand(c.newLoginCmd())
	cmd.AddCommand(c.newLogoutCmd())
	cmd.AddCommand(c.newWhoamiCmd())
	cmd.AddCommand(c.newListCmd())
	cmd.AddCommand(c.newAddCmd())
	cmd.AddCommand(c.newRenameCmd())
	cmd.AddCommand(c.newRemoveCmd())
	cmd.AddCommand(c.newFavoriteCmd())
	cmd.AddCommand(c.newScanCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Override with flags
	if c.endpoint != "" {
		c.cfg.Client.BaseURL = c.endpoint
	}
	if c.sessionPath != "" {
		c.cfg.Client.SessionPath = c.sessionPath
	}
	if c.debug {
		c.cfg.Client.Debug = true
	}

	return nil
}

// app bundles the per-invocation collaborators
type app struct {
	session   *session.Session
	client    *api.Client
	inventory *usecase.InventoryService
}

func (a *app) Close() {
	a.inventory.Close()
}

// openApp opens the session and builds the API client and inventory service
func (c *CLI) openApp() (*app, error) {
	path := c.cfg.Client.SessionPath
	if path == "" {
		defaultPath, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	sess, err := session.Open(path)
	if err != nil {
		return nil, err
	}
	c.debugf("session: %s (active=%v)\n", path, sess.Active())

	client := api.NewClient(c.cfg.Client.BaseURL, sess, api.ClientConfig{
		Timeout:           c.cfg.Client.Timeout,
		RequestsPerSecond: float64(c.cfg.RateLimit.Client),
	})
	client.SetDebug(c.cfg.Client.Debug)

	inventory := usecase.NewInventoryService(client, client, usecase.InventoryServiceConfig{
		Lexicon: usecase.Lexicon{
			Stoplist:  c.cfg.Heuristic.Stoplist,
			MinLength: c.cfg.Heuristic.MinLength,
			MaxLength: c.cfg.Heuristic.MaxLength,
		},
		EnableDebugLogging: c.cfg.Client.Debug,
		Clock:              c.clock,
	})

	return &app{session: sess, client: client, inventory: inventory}, nil
}

// openSession is openApp for commands that need a logged-in user
func (c *CLI) openSession() (*app, error) {
	a, err := c.openApp()
	if err != nil {
		return nil, err
	}
	if !a.session.Active() {
		a.Close()
		return nil, fmt.Errorf("%w: run 'bestbefore login' first", domain.ErrUnauthorized)
	}
	return a, nil
}

// prompt asks for one line of input
func (c *CLI) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y/yes is no
func (c *CLI) confirm(question string) (bool, error) {
	answer, err := c.prompt(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Helper functions for output

func (c *CLI) printf(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintf(c.out, format, args...)
	}
}

func (c *CLI) println(args ...interface{}) {
	if !c.quiet {
		fmt.Fprintln(c.out, args...)
	}
}

func (c *CLI) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.errOut, format, args...)
}

func (c *CLI) debugf(format string, args ...interface{}) {
	if c.debug {
		fmt.Fprintf(c.errOut, "[DEBUG] "+format, args...)
	}
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
