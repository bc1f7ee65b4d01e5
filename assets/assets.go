// Package assets embeds the shader sources so the binaries run from any working directory.
package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed shaders
var embedded embed.FS

// FS holds the shaders/ tree.
var FS fs.FS = embedded

// Open returns the embedded tree, or the tree rooted at dir when dir is not empty.
func Open(dir string) fs.FS {
	if dir == "" {
		return FS
	}
	return os.DirFS(dir)
}
