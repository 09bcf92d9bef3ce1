package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatchCommand() *Command {
	cmd := &Command{
		Name:        "watch",
		Description: "Watch a configuration directory and regenerate on change",
	}
	cmd.Run = func(args []string) error {
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		opts := &generateOptions{}
		opts.register(fs)
		debounce := fs.Duration("debounce", 500*time.Millisecond, "Delay before regenerating after a change")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if opts.configDir == "" {
			return fmt.Errorf("-config-dir is required for watch")
		}
		return runWatch(context.Background(), opts, *debounce)
	}
	return cmd
}

// isConfigFile reports whether a changed path looks like a snippet
// configuration.
func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// runWatch regenerates all snippets whenever a configuration file in the
// watched directory is created, written or removed. Events are debounced
// so editors that write in several steps trigger one regeneration.
func runWatch(ctx context.Context, opts *generateOptions, debounce time.Duration) error {
	if err := opts.validate(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.configDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.configDir, err)
	}

	// Initial generation before waiting for changes
	if err := runGenerate(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var timer *time.Timer
	timerCh := make(<-chan time.Time)

	fmt.Printf("Watching %s for changes...\n", opts.configDir)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			timerCh = timer.C

		case <-timerCh:
			if err := runGenerate(ctx, opts); err != nil {
				fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case <-sigCh:
			fmt.Println("Stopping watch")
			return nil

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
