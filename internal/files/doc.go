// Package files locates and watches the source workbook.
//
// Discovery resolves the configured workbook path against a base directory,
// reports its size and modification time for health checks, and lists other
// Excel files nearby when the configured one is missing.
//
// Watcher uses fsnotify on the workbook's directory so saves that replace the
// file (write to temp, then rename) are seen as well as in-place writes.
// Bursts of events are debounced into a single callback.
//
// Example usage:
//
//	w, err := files.NewWatcher("supplaychain.xlsx", 500*time.Millisecond, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	go w.Run(ctx, func(path string) { svc.Reload(ctx, "watch") })
package files
