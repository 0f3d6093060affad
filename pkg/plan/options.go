// Package plan turns an assignment into ordered, buildable units of work:
// effective per-package build options, a reproducible build order per
// repository, and the ninja file handed to the external build step.
package plan

import (
	"github.com/arthur-debert/aurplan/pkg/config"
	"github.com/arthur-debert/aurplan/pkg/logging"
)

var log = logging.GetLogger("plan")

// Options are the effective build settings for one package.
type Options struct {
	// Chroot builds the package in a clean chroot
	Chroot bool
}

// MergeOptions computes effective options for every assigned package:
// the defaults overlaid with the package's explicit override, matched by
// exact name only. Overrides naming packages outside the assignment are
// surfaced with a warning; they often mean a package fell out of the
// closure since the config was written.
func MergeOptions(defaults Options, assignment map[string]string, overrides map[string]config.Override) map[string]Options {
	merged := make(map[string]Options, len(assignment))
	for name := range assignment {
		merged[name] = defaults
	}

	for name, override := range overrides {
		opts, ok := merged[name]
		if !ok {
			log.Warn().Str("package", name).Msg("Override for package not in any repository, ignoring")
			continue
		}
		if override.Chroot != nil {
			opts.Chroot = *override.Chroot
		}
		merged[name] = opts
	}
	return merged
}
