package launcher

import (
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-csm/flags"
	"github.com/rony4d/go-csm/logging"
	"github.com/rony4d/go-csm/mempool"
)

var app = newApp()

func newApp() *cli.App {
	app := flags.NewApp("arena-backed bit-packed record toolkit")
	app.Flags = flags.Merge(flags.CommonFlags(), flags.ArenaFlags())
	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		soakCommand,
		connsCommand,
		dumpConfigCommand,
	}
	return app
}

// Launch runs the csm command line.
func Launch(args []string) error {
	return app.Run(args)
}

// node is the per-invocation state every command runs on.
type node struct {
	cfg   Config
	log   *logrus.Logger
	pools *mempool.Pools
	out   io.Writer
}

func makeNode(ctx *cli.Context) (*node, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, ctx.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	n := &node{
		cfg:   cfg,
		log:   log,
		pools: mempool.New(cfg.Arenas, logging.WatermarkObserver(log)),
		out:   ctx.App.Writer,
	}
	log.WithFields(logrus.Fields{
		"program":    cfg.Arenas.Program,
		"persistent": cfg.Arenas.Persistent,
		"session":    cfg.Arenas.Session,
		"frame":      cfg.Arenas.Frame,
	}).Debug("Arenas allocated")
	return n, nil
}

func (n *node) close() {
	for _, m := range n.pools.Metrics() {
		n.log.WithFields(logrus.Fields{
			"arena":       m.Name,
			"used":        m.Used,
			"capacity":    m.Capacity,
			"utilization": m.Utilization,
		}).Debug("Arena usage")
	}
	n.pools.Close()
}

// withNode wraps a command action with node setup and teardown.
func withNode(fn func(ctx *cli.Context, n *node) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		n, err := makeNode(ctx)
		if err != nil {
			return err
		}
		defer n.close()
		return fn(ctx, n)
	}
}
