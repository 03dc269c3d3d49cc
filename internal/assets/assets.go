package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// FS serves the stylesheet and script under /static.
var FS = func() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}()
