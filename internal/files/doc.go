// Package files discovers calibration logs on disk and loads them.
//
// Discovery lists the log files of a directory in name order, skipping
// Office lock files. Reader buffers each file into a domain.LogBlob keyed by
// its file name.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	found, err := discovery.FindLogFiles("/data/logs", []string{".xml"})
//
//	blobs, err := files.NewReader(logger).ReadAll(ctx, found)
package files
