//go:build !unix

package infrastructure

import "os"

// Appends stay serialized in-process by ActivityLog.mu.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
