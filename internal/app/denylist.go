package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Denylist holds the banned substrings for room renaming, one per line
// in a plain text file. The file is watched so edits apply without a
// restart.
type Denylist struct {
	mu    sync.RWMutex
	words []string

	watcher *fsnotify.Watcher
}

// LoadDenylist reads the file at path. A missing file is an error;
// an empty file means nothing is banned. Lines starting with # are
// comments.
func LoadDenylist(path string) (*Denylist, error) {
	d := &Denylist{}
	if err := d.reload(path); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Denylist) reload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("denylist: open %s: %w", path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("denylist: read %s: %w", path, err)
	}

	d.mu.Lock()
	d.words = words
	d.mu.Unlock()
	return nil
}

// Allows reports whether name contains none of the banned substrings.
// Matching is case-insensitive substring containment.
func (d *Denylist) Allows(name string) bool {
	lower := strings.ToLower(name)
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, word := range d.words {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// Watch reloads the list whenever the file changes. Call Close to stop
// watching.
func (d *Denylist) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("denylist: watch: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("denylist: watch %s: %w", path, err)
	}
	d.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if err := d.reload(path); err != nil {
						log.Error().Err(err).Str("module", "app.denylist").Msg("reload failed")
						continue
					}
					log.Info().Str("module", "app.denylist").Str("path", path).Msg("denylist reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Str("module", "app.denylist").Msg("watch error")
			}
		}
	}()
	return nil
}

func (d *Denylist) Close() error {
	if d.watcher == nil {
		return nil
	}
	return d.watcher.Close()
}
