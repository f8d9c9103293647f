package management

import (
	"embed"
	"io/fs"
	"os"
)

// Embed the management interface assets
//
//go:embed assets/*
var assetsFS embed.FS

// GetAssets returns the embedded assets filesystem
func GetAssets() (fs.FS, error) {
	// WATCHFACE_MANAGEMENT_ASSETS_DIR serves assets from disk while the page is
	// being edited.
	if dir := os.Getenv("WATCHFACE_MANAGEMENT_ASSETS_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}

	return fs.Sub(assetsFS, "assets")
}
