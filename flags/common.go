package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	LogLevelFlag = cli.StringFlag{
		Name:  "log.level",
		Usage: "Log level (trace|debug|info|warn|error)",
		Value: "info",
	}
	LogFormatFlag = cli.StringFlag{
		Name:  "log.format",
		Usage: "Log output format (text|json)",
		Value: "text",
	}
	LogColorFlag = cli.BoolFlag{
		Name:  "log.color",
		Usage: "Enable colored log output",
	}
	SentryDSNFlag = cli.StringFlag{
		Name:  "sentry.dsn",
		Usage: "Report errors to the Sentry project at this DSN",
	}
)

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFileFlag,
		LogLevelFlag,
		LogFormatFlag,
		LogColorFlag,
		SentryDSNFlag,
	}
}
