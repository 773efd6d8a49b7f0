package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	ArenaPresetFlag = cli.StringFlag{
		Name:  "arena.preset",
		Usage: "Named arena sizing profile (lite|default|large), applied before the config file",
	}
	// Sizes in bytes. They override every other source.
	ProgramArenaFlag = cli.IntFlag{
		Name:  "arena.program",
		Usage: "Size of the program arena in bytes",
	}
	PersistentArenaFlag = cli.IntFlag{
		Name:  "arena.persistent",
		Usage: "Size of the persistent arena in bytes",
	}
	SessionArenaFlag = cli.IntFlag{
		Name:  "arena.session",
		Usage: "Size of the session arena in bytes",
	}
	FrameArenaFlag = cli.IntFlag{
		Name:  "arena.frame",
		Usage: "Size of the frame arena in bytes",
	}
)

// ArenaFlags covers memory pool sizing.
func ArenaFlags() []cli.Flag {
	return []cli.Flag{
		ArenaPresetFlag,
		ProgramArenaFlag,
		PersistentArenaFlag,
		SessionArenaFlag,
		FrameArenaFlag,
	}
}
