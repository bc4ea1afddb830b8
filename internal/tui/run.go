package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/app"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/config"
	"github.com/studiowebux/hac/internal/event"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/highlight"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/loader"
	"github.com/studiowebux/hac/internal/router"
	"github.com/studiowebux/hac/internal/terminal"
)

// Options configures Run
type Options struct {
	Settings       config.Settings
	CollectionsDir string
	Keys           *keybinds.Registry
	// Recorder stores every execution; nil disables history
	Recorder executor.Recorder
}

// newRootRouter registers every page of the application. The viewer
// session is returned so it can be flushed on quit.
func newRootRouter(d *deps) (*router.Router, *viewer) {
	list := newCollectionListPage(d)
	viewerRouter, v := newViewerRouter(d)

	r := router.New("app")
	r.SetMinSize(40, 10)
	r.AddRoute(routeCollectionList, list)
	r.AddRoute(routeCreateCollection, newCreateCollectionPage(d, list))
	r.AddRoute(routeRenameCollection, newRenameCollectionPage(d, list))
	r.AddRoute(routeDeleteCollection, newDeleteCollectionPage(d, list))
	r.AddRoute(routeCollectionViewer, viewerRouter)
	return r, v
}

// shutdown writes the edits the viewer has not saved yet and waits for the
// requests still running, so their history is recorded before the caller
// closes the database.
func shutdown(d *deps, v *viewer) error {
	err := v.flush()
	if err != nil {
		d.logger.Error("failed to save collection on quit", "err", err)
	}
	d.pipeline.Wait()
	return err
}

// Run takes over the terminal until the user quits
func Run(ctx context.Context, opts Options) error {
	logger := log.Default().WithPrefix("tui")
	s := opts.Settings

	keys := opts.Keys
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}

	client, err := executor.NewHTTPClient(executor.ClientOptions{
		Timeout:            s.HTTPTimeout,
		InsecureSkipVerify: s.TLS.InsecureSkipVerify,
		CAFile:             s.TLS.CAFile,
		CertFile:           s.TLS.CertFile,
		KeyFile:            s.TLS.KeyFile,
	})
	if err != nil {
		return err
	}

	bus := command.NewBus()
	d := &deps{
		loader:      loader.New(opts.CollectionsDir, s.DryRun, logger),
		bus:         bus,
		pipeline:    executor.NewPipeline(client, opts.Recorder),
		keys:        keys,
		highlighter: highlight.New(s.Theme),
		logger:      logger,
	}

	root, v := newRootRouter(d)
	term := terminal.New(terminal.Options{})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := d.loader.Watch(ctx, func() { d.send(command.RefreshCollections{}) }); err != nil {
		logger.Warn("collections directory is not watched", "dir", opts.CollectionsDir, "err", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}
	go func() {
		select {
		case <-term.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	a := app.New(app.Options{
		Source:  event.NewSource(term, s.TickRate, s.FrameRate),
		Bus:     bus,
		Root:    &shell{Router: root, keys: keys},
		Screen:  term,
		Effects: newEffects(d, root),
		Logger:  logger,
	})

	logger.Info("starting", "collections", opts.CollectionsDir, "dry_run", s.DryRun)
	root.NavigateTo(routeCollectionList, nil)

	runErr := a.Run(ctx)
	if err := term.Stop(); err != nil && runErr == nil {
		runErr = err
	}
	if err := shutdown(d, v); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to save collection: %w", err)
	}
	return runErr
}
