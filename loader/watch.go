package loader

import (
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch installs every existing descriptor in dir, then blocks processing
// fsnotify events for new, rewritten and removed descriptors until
// stopCh is closed. Grounded on the teacher's unsignedScan watch loop
// (apkgdb/unsigned.go): an initial os.ReadDir pass, then a select over
// watcher.Events/watcher.Errors switching on fsnotify.Create/Write/Remove.
func (l *Loader) Watch(dir string, stopCh <-chan struct{}) error {
	if _, err := l.LoadDir(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			l.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logf("watcher error: %s", err)
		case <-stopCh:
			return nil
		}
	}
}

func (l *Loader) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, descriptorSuffix) {
		return
	}

	switch {
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		l.removeFile(event.Name)
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if l.sameFileAlreadyLoaded(event.Name) {
			return
		}
		if err := l.loadFile(event.Name); err != nil {
			l.logf("failed to load %s: %s", event.Name, err)
		}
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		l.removeFile(event.Name)
	}
}
