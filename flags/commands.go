package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// ProbeFlags holds the fields of a probe record.
func ProbeFlags() []cli.Flag {
	return []cli.Flag{
		cli.Uint64Flag{Name: "seq", Usage: "Sequence number"},
		cli.UintFlag{Name: "channel", Usage: "Channel id (0-255)"},
		cli.BoolFlag{Name: "reliable", Usage: "Mark the probe as sent on the reliable channel"},
		cli.Float64Flag{Name: "latency", Usage: "Measured latency in milliseconds"},
	}
}

// AttackFlags holds the fields of an attack record.
func AttackFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "turn", Usage: "Turn number"},
		cli.UintFlag{Name: "x", Usage: "X coordinate (0-2)"},
		cli.UintFlag{Name: "y", Usage: "Y coordinate (0-2)"},
		cli.UintFlag{Name: "z", Usage: "Z coordinate (0-2)"},
		cli.UintFlag{Name: "w", Usage: "W coordinate (0-2)"},
		cli.BoolFlag{Name: "confirmed", Usage: "Mark the attack as confirmed"},
	}
}

// SoakFlags tunes the frame loop exercise.
func SoakFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "frames", Usage: "Number of frames to run", Value: 1000},
		cli.IntFlag{Name: "per-frame", Usage: "Probes encoded per frame", Value: 64},
	}
}

// ConnsFlags drives the connection table exercise.
func ConnsFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "max", Usage: "Connection table capacity", Value: 16},
		cli.StringFlag{Name: "add", Usage: "Comma-separated ip:port peers to connect"},
		cli.StringFlag{Name: "free", Usage: "Comma-separated slots to release afterwards"},
	}
}
