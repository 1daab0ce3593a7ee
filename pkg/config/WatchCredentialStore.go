package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/security"
)

// WatchCredentialStore loads path once and installs its entries into
// store, then watches path for writes and atomically replaces the
// store's entries on every change via store.Replace. New credential
// lookups observe the update; protocol clients that already cached
// credentials at connection time do not re-fetch them, so a rotation
// only takes effect for new connections.
//
// The returned *fsnotify.Watcher must be closed by the caller (e.g. on
// servient shutdown) to stop the watch goroutine.
func WatchCredentialStore(path string, store *security.CredentialStore) (*fsnotify.Watcher, error) {
	entries, err := LoadCredentialStoreFile(path)
	if err != nil {
		return nil, err
	}
	store.Replace(entries)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				entries, err := LoadCredentialStoreFile(path)
				if err != nil {
					logrus.Warnf("config: reload of credential store %q failed, keeping previous entries: %v", path, err)
					continue
				}
				store.Replace(entries)
				logrus.Infof("config: reloaded credential store %q (%d entries)", path, len(entries))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Warnf("config: credential store watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
