package config

import (
	"regexp"

	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate checks a Config against spec §7's invalid_config rules: version
// must match major.minor.patch, and the four categorize thresholds must be
// strictly ascending.
func Validate(cfg *Config) error {
	if !versionPattern.MatchString(cfg.Version) {
		return cbperrors.New(cbperrors.InvalidConfig, "version %q does not match ^\\d+\\.\\d+\\.\\d+$", cfg.Version)
	}

	c := cfg.Tree.Categorize
	if !(c.Gray < c.White && c.White < c.Yellow && c.Yellow < c.Red) {
		return cbperrors.New(cbperrors.InvalidConfig,
			"categorize thresholds must be strictly ascending, got gray=%d white=%d yellow=%d red=%d",
			c.Gray, c.White, c.Yellow, c.Red)
	}

	return nil
}
