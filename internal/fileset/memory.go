package fileset

import (
	"io/fs"
	"testing/fstest"
)

// NewMemoryResolver returns a Resolver over in-memory files keyed by
// slash-separated relative path.
func NewMemoryResolver(files map[string][]byte) Resolver {
	fsys := make(fstest.MapFS, len(files))
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: content, Mode: fs.ModePerm}
	}
	return NewResolver(fsys)
}
