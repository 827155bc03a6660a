package opts

import (
	"context"
	"os"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the --config flag. Empty means discover a .patchrc.* file
	// in the working directory.
	ConfigFile string
	Documents  document.FileManager
	Logger     *log.Logger

	loaded bool
	config *config.Config
}

// Config loads the rule file on first use. It returns nil without error when
// no --config was given and no rule file was discovered.
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	if o.loaded {
		return o.config, nil
	}

	path := o.ConfigFile
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		path = config.Discover(cwd)
	}

	if path != "" {
		cfg, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		o.config = cfg
	}

	o.loaded = true
	return o.config, nil
}
