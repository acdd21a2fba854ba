package engine

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/landan/engine/core"
)

// ConfigWatcher reloads a TOML config file whenever it changes on disk.
type ConfigWatcher struct {
	path     string
	base     func() ApplicationConfig
	onChange func(ApplicationConfig)

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewConfigWatcher decodes the file over base() on every change and passes
// the result to onChange. The parent directory is watched since editors
// usually replace files instead of writing them in place.
func NewConfigWatcher(path string, base func() ApplicationConfig, onChange func(ApplicationConfig)) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		base:     base,
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	for {
		select {
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cw.reload()
			}

		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err)

		case <-cw.done:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg := cw.base()
	if err := cfg.Load(cw.path); err != nil {
		core.LogError("config reload failed, keeping the running config: %s", err)
		return
	}
	core.LogDebug("config reloaded from %s", cw.path)
	cw.onChange(cfg)
}

func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		err = cw.fsnotify.Close()
		cw.wg.Wait()
	})
	return err
}
