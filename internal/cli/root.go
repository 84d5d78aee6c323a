// Package cli implements the tracker command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"assignmenttracker/internal/client"
	"assignmenttracker/internal/models"
	"assignmenttracker/internal/store"
)

// Options wires the CLI to its environment. Zero values use the real ones.
type Options struct {
	Out        io.Writer
	HTTPClient *http.Client
	Now        func() time.Time
}

type app struct {
	opts       Options
	configPath string
	apiURL     string

	cfg   *Config
	store *store.Store
}

// NewRootCommand builds the tracker command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Track assignments and plan when to work on them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(opts.Out)
	root.PersistentFlags().StringVar(&a.configPath, "config", DefaultConfigPath(), "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API root, overrides api_url from the config")

	root.AddCommand(
		a.listCommand(),
		a.addCommand(),
		a.showCommand(),
		a.editCommand(),
		a.doneCommand(),
		a.removeCommand(),
		a.planCommand(),
		a.unplanCommand(),
		a.calendarCommand(),
		a.agendaCommand(),
		a.statsCommand(),
	)
	return root
}

// Execute runs the CLI with the process arguments
func Execute() int {
	cmd := NewRootCommand(Options{})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = strings.TrimSuffix(a.apiURL, "/")
	}
	a.cfg = cfg

	httpClient := a.opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout()}
	}
	a.store = store.New(client.New(cfg.APIURL, httpClient))
	return nil
}

// load fills the cache; every command works from a fresh view of the server
func (a *app) load(ctx context.Context) error {
	if err := a.store.Load(ctx); err != nil {
		return errors.New(a.store.Err())
	}
	return nil
}

func (a *app) today() time.Time {
	return a.opts.Now().In(a.cfg.Location())
}

func (a *app) parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), a.cfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// resolve accepts a full id or an unambiguous prefix of one
func (a *app) resolve(ref string) (models.Assignment, error) {
	if got, ok := a.store.Get(ref); ok {
		return got, nil
	}
	var matches []models.Assignment
	for _, item := range a.store.All() {
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return models.Assignment{}, fmt.Errorf("no assignment matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Assignment{}, fmt.Errorf("%q matches %d assignments, use more of the id", ref, len(matches))
	}
}

// storeErr prefers the store's user-facing message over the raw error
func (a *app) storeErr(err error) error {
	if msg := a.store.Err(); msg != "" {
		return errors.New(msg)
	}
	return err
}
