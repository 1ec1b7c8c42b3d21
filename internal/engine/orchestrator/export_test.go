package orchestrator

import (
	"io/fs"
	"time"
)

// SetNowForTest replaces the clock used to stamp upper layer builds.
func (o *Orchestrator) SetNowForTest(now func() time.Time) {
	o.now = now
}

// SetScriptsFSForTest replaces the filesystem build.d is read from.
func (o *Orchestrator) SetScriptsFSForTest(open func(dir string) fs.FS) {
	o.scriptsFS = open
}
