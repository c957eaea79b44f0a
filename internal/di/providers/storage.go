package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/corkboard/internal/config"
	"github.com/listenupapp/corkboard/internal/logger"
	"github.com/listenupapp/corkboard/internal/media"
)

// ProvideFileResolver provides the resolver used for imported files. In disk
// mode blobs are kept under {data}/files; otherwise they are inlined.
func ProvideFileResolver(i do.Injector) (*media.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Files.Mode != config.FilesDisk {
		return media.NewResolver(nil, log.WithComponent("media")), nil
	}

	files, err := media.NewStorage(cfg.Storage.DataPath, "files")
	if err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}

	log.Info("File storage initialized", "path", files.Path(""))

	return media.NewResolver(files, log.WithComponent("media")), nil
}
