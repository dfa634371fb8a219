package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bitvfx/pix-go/config"
	"github.com/bitvfx/pix-go/internal/prefs"
	"github.com/bitvfx/pix-go/internal/state"
	"github.com/bitvfx/pix-go/internal/ui"
	"github.com/bitvfx/pix-go/session"
)

// Options configure the pixfeed application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pixfeed/prefs.toml
	Project    string // empty falls back to the prefs default, then the picker
	PollEvery  int    // seconds; zero uses default
}

// Run boots the pixfeed TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load pix config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	sess, err := session.New(cfg)
	if err != nil {
		return fmt.Errorf("init pix session: %w", err)
	}

	store := &state.Store{}
	client := newInboxClient(sess, store)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	StartPoller(ctx, client, interval)

	uiOpts := ui.Options{
		Context:     ctx,
		Store:       store,
		PollTick:    2 * time.Second,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		LoadProject: client.LoadProject,
		Refresh:     client.Refresh,
		MarkRead:    client.MarkRead,
		Delete:      client.Delete,
	}

	projectName := opts.Project
	if projectName == "" {
		projectName = userPrefs.DefaultProject
	}
	if projectName != "" {
		if err := client.LoadProject(ctx, projectName); err != nil {
			return fmt.Errorf("load project %q: %w", projectName, err)
		}
		uiOpts.ProjectLoaded = true
	} else {
		projects, err := sess.Projects(ctx, 0)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		choices := make([]string, 0, len(projects))
		for _, p := range projects {
			choices = append(choices, p.Label())
		}
		if len(choices) == 0 {
			return fmt.Errorf("no accessible projects for %s", cfg.Username)
		}
		uiOpts.ProjectChoices = choices
	}

	return ui.Run(uiOpts)
}
