// Package watcher reports debounced batches of changes to the files a
// content graph is built from.
//
// Changes are observed with fsnotify, filtered against the sources'
// patterns and coalesced per path within a debounce window, so an editor
// save or a git checkout triggers one re-index instead of many.
//
//	w, err := watcher.New(watcher.Options{Patterns: []string{"docs/**/*.mdx"}})
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go w.Start(ctx, root)
//	for batch := range w.Events() {
//	    // re-index
//	}
package watcher
