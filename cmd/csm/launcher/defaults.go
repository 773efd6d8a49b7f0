package launcher

import (
	"github.com/rony4d/go-csm/logging"
	"github.com/rony4d/go-csm/mempool"
)

// Defaults bundles the baseline configuration values the launcher uses
// before config files, environment and flags override them.
type Defaults struct {
	Logging LoggingDefaults
	Arenas  ArenaDefaults
}

// LoggingDefaults controls log level/format.
type LoggingDefaults struct {
	Level  string // trace, debug, info, warn, error
	Format string // text or json
	Color  bool   // ANSI colors; off by default so piped output stays clean
}

// ArenaDefaults sizes the memory pools, in bytes.
type ArenaDefaults struct {
	Program    int // lives until exit
	Persistent int // survives session restarts
	Session    int // connection table and per-session state
	Frame      int // scratch for a single loop iteration
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	log := logging.DefaultConfig()
	pools := mempool.DefaultConfig()
	return Defaults{
		Logging: LoggingDefaults{
			Level:  log.Level,
			Format: log.Format,
			Color:  log.Color,
		},
		Arenas: ArenaDefaults{
			Program:    pools.Program,
			Persistent: pools.Persistent,
			Session:    pools.Session,
			Frame:      pools.Frame,
		},
	}
}
