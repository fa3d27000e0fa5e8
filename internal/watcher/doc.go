// Package watcher reports debounced changes to a directory tree and to a
// rule file, using fsnotify.
//
// Usage:
//
//	w, err := watcher.New(watcher.Options{RulesPath: rulesPath})
//	if err != nil {
//	    return err // DependencyError when fsnotify is unavailable
//	}
//	defer w.Stop()
//
//	go func() { _ = w.Start(ctx, root) }()
//
//	for batch := range w.Events() {
//	    if watcher.RulesChanged(batch) {
//	        // reload rules
//	    }
//	    // re-run the classification
//	}
//
// There is no polling fallback: if the platform cannot deliver file events
// the caller gets an error instead of a degraded watch.
package watcher
