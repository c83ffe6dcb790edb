package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
	fsRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/filesystem"
)

// DefaultDebounce is how long a file must stay quiet before it is converted.
const DefaultDebounce = 100 * time.Millisecond

// Watch is the interface for the watch command.
type Watch interface {
	Execute(ctx context.Context, settings *entities.Settings, opts WatchOptions) error
}

// WatchOptions holds runtime options for a watch session.
type WatchOptions struct {
	RunOptions
	Debounce time.Duration
}

// WatchCommand converts the source tree once and then re-converts each
// changelog as it changes on disk, until the context is cancelled.
type WatchCommand struct {
	run     Run
	formats *infraRepos.FormatRegistry
	sources *infraRepos.SourceRegistry
	target  repositories.TargetRepository
	convert Convert
}

// NewWatchCommand creates a new WatchCommand.
func NewWatchCommand(
	run Run,
	formats *infraRepos.FormatRegistry,
	sources *infraRepos.SourceRegistry,
	target repositories.TargetRepository,
	convert Convert,
) *WatchCommand {
	return &WatchCommand{
		run:     run,
		formats: formats,
		sources: sources,
		target:  target,
		convert: convert,
	}
}

// Execute runs the initial pass and then watches the source directory.
func (it *WatchCommand) Execute(ctx context.Context, settings *entities.Settings, opts WatchOptions) error {
	if settings.Revision != "" {
		return errors.New("watch reads the working tree and cannot be combined with a revision")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	parser, err := it.formats.Parser(settings.SourceFormat)
	if err != nil {
		return err
	}
	source, err := it.sources.Get("filesystem", "")
	if err != nil {
		return err
	}

	report, err := it.run.Execute(ctx, settings, opts.RunOptions)
	if report == nil {
		return err
	}
	if err != nil {
		logger.Warnf("Initial conversion failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	session := &watchSession{
		ctx:      ctx,
		watcher:  watcher,
		root:     settings.SourceDir,
		exts:     sourceExtensions(parser, settings.SourceFormat),
		debounce: opts.Debounce,
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string),
		pipeline: &pipeline{
			convert:  it.convert,
			source:   source,
			target:   it.target,
			settings: settings,
			bindings: settings.Bindings(),
			dryRun:   opts.DryRun,
		},
	}
	if err = session.addTree(settings.SourceDir, false); err != nil {
		return err
	}

	logger.Infof("Watching %q for changes (Ctrl+C to stop)", settings.SourceDir)
	return session.loop()
}

type watchSession struct {
	ctx      context.Context
	watcher  *fsnotify.Watcher
	root     string
	exts     []string
	debounce time.Duration
	timers   map[string]*time.Timer
	ready    chan string
	pipeline *pipeline
}

func (s *watchSession) loop() error {
	defer func() {
		for _, timer := range s.timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			s.handle(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Watcher error: %v", err)
		case path := <-s.ready:
			delete(s.timers, path)
			s.convert(path)
		}
	}
}

func (s *watchSession) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			if addErr := s.addTree(event.Name, true); addErr != nil {
				logger.Warnf("Failed to watch %s: %v", event.Name, addErr)
			}
		}
		return
	}
	s.schedule(event.Name)
}

// addTree watches dir and its subdirectories. Files already present in a
// directory that appeared during the session are scheduled too.
func (s *watchSession) addTree(dir string, scheduleFiles bool) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return s.watcher.Add(path)
		}
		if scheduleFiles {
			s.schedule(path)
		}
		return nil
	})
}

func (s *watchSession) schedule(path string) {
	if !fsRepo.HasExtension(path, s.exts) {
		return
	}
	if timer, ok := s.timers[path]; ok {
		timer.Reset(s.debounce)
		return
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		select {
		case s.ready <- path:
		case <-s.ctx.Done():
		}
	})
}

func (s *watchSession) convert(path string) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		logger.Warnf("Ignoring %s: %v", path, err)
		return
	}
	file := entities.SourceFile{ID: filepath.ToSlash(rel), Path: path}
	logger.Debugf("Change detected in %s", file.ID)
	s.pipeline.process(s.ctx, file)
}
