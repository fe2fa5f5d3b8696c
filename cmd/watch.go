package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/ornamentum/score"
	"github.com/jsphweid/ornamentum/util"
	"github.com/spf13/cobra"
)

const realizedSuffix = ".realized.yaml"

var watchDelay time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 200*time.Millisecond, "wait this long after the last change before realizing")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-realizes scores in a directory whenever they change",
	Long: `Every score in <dir> is realized next to itself as <name>.realized.yaml,
once at startup and again after each change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(args[0], nil)
	},
}

// RealizedPath is where the realization of a score file is written.
func RealizedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + realizedSuffix
}

func isSource(path string) bool {
	return util.IsScorePath(path) && !strings.HasSuffix(path, realizedSuffix)
}

func realizeFile(e *engine, path string) error {
	f, err := score.Load(path)
	if err != nil {
		return err
	}
	res, err := e.realize(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data, err := res.score.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(RealizedPath(path), data, 0o644)
}

// watch runs until stop is closed (or forever when stop is nil).
func watch(dir string, stop <-chan struct{}) error {
	e := &engine{defaultKey: cfg.DefaultKey, logger: logger}

	paths, err := util.GatherScorePaths(dir, 0)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if !isSource(p) {
			continue
		}
		if err := realizeFile(e, p); err != nil {
			logger.Error("realize failed", "path", p, "err", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.Info("watching", "dir", dir, "scores", len(paths))

	// mu is held while realizing, so shutdown waits for a running flush
	var mu sync.Mutex
	pending := map[string]bool{}
	closed := false
	drain := func() {
		for _, p := range util.GetKeys(pending) {
			if err := realizeFile(e, p); err != nil {
				logger.Error("realize failed", "path", p, "err", err)
				continue
			}
			logger.Info("realized", "path", p, "out", RealizedPath(p))
		}
		pending = map[string]bool{}
	}
	flush := func() {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			drain()
		}
	}
	// a debounced flush still queued at shutdown finds nothing to do
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		drain()
		closed = true
	}()
	debounced := debounce.New(watchDelay)

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSource(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			mu.Lock()
			pending[ev.Name] = true
			mu.Unlock()
			logger.Debug("queued", "path", ev.Name)
			debounced(flush)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}
