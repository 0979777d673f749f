package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type volumeOwner struct {
	rel string
	uid int
	gid int
}

// volumeOwners maps stateful volume directories to the UID/GID the
// corresponding container runs as.
var volumeOwners = []volumeOwner{
	{rel: "redis", uid: 999, gid: 999},
	{rel: "unbound", uid: 1000, gid: 1000},
	{rel: filepath.Join("adguardhome", "work"), uid: 0, gid: 0},
	{rel: "certbot", uid: 0, gid: 0},
}

// FixVolumeOwnership chowns persistent data directories so the containers
// can write to them. It is a no-op when not running privileged.
func FixVolumeOwnership(cfg Config) error {
	if os.Geteuid() != 0 {
		return nil
	}
	for _, vol := range volumeOwners {
		dir := filepath.Join(cfg.InstallDir, vol.rel)
		if !dirExists(dir) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			return os.Chown(path, vol.uid, vol.gid)
		})
		if err != nil {
			return fmt.Errorf("chown %s: %w", dir, err)
		}
	}
	return nil
}
