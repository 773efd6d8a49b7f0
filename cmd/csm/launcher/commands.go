package launcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-csm/conntable"
	"github.com/rony4d/go-csm/flags"
	"github.com/rony4d/go-csm/inter"
	"github.com/rony4d/go-csm/inter/peeraddr"
	"github.com/rony4d/go-csm/utils/serialize"
)

var (
	ErrBadArgument = errors.New("bad argument")
	ErrBadLength   = errors.New("encoded record has the wrong length")
)

// record is a wire record the CLI knows how to print.
type record interface {
	serialize.Message
	RPCMarshal() map[string]interface{}
}

var (
	encodeCommand = cli.Command{
		Name:  "encode",
		Usage: "Encode a record and print its wire form",
		Subcommands: []cli.Command{
			{
				Name:   "probe",
				Usage:  "Encode a connection probe",
				Flags:  flags.ProbeFlags(),
				Action: withNode(encodeProbe),
			},
			{
				Name:   "attack",
				Usage:  "Encode a grid attack",
				Flags:  flags.AttackFlags(),
				Action: withNode(encodeAttack),
			},
		},
	}

	decodeCommand = cli.Command{
		Name:  "decode",
		Usage: "Decode a 0x-prefixed hex record",
		Subcommands: []cli.Command{
			{
				Name:      "probe",
				Usage:     "Decode a connection probe",
				ArgsUsage: "<hex>",
				Action:    withNode(decodeRecord(func() record { return &inter.Probe{} })),
			},
			{
				Name:      "attack",
				Usage:     "Decode a grid attack",
				ArgsUsage: "<hex>",
				Action:    withNode(decodeRecord(func() record { return &inter.Attack{} })),
			},
		},
	}

	soakCommand = cli.Command{
		Name:   "soak",
		Usage:  "Run a frame loop that encodes and decodes probes in the frame arena",
		Flags:  flags.SoakFlags(),
		Action: withNode(soak),
	}

	connsCommand = cli.Command{
		Name:   "conns",
		Usage:  "Fill a connection table in the session arena",
		Flags:  flags.ConnsFlags(),
		Action: withNode(conns),
	}

	dumpConfigCommand = cli.Command{
		Name:   "dumpconfig",
		Usage:  "Print the effective configuration as TOML",
		Action: withNode(dumpConfig),
	}
)

func encodeProbe(ctx *cli.Context, n *node) error {
	seq := ctx.Uint64("seq")
	if seq > math.MaxUint32 {
		return fmt.Errorf("%w: seq %d does not fit 32 bits", ErrBadArgument, seq)
	}
	channel := ctx.Uint("channel")
	if channel > math.MaxUint8 {
		return fmt.Errorf("%w: channel %d does not fit 8 bits", ErrBadArgument, channel)
	}
	p := inter.Probe{
		Seq:      uint32(seq),
		Channel:  uint8(channel),
		Reliable: ctx.Bool("reliable"),
		Latency:  float32(ctx.Float64("latency")),
	}
	return n.printEncoding(&p)
}

func encodeAttack(ctx *cli.Context, n *node) error {
	turn := ctx.Int("turn")
	if turn < math.MinInt32 || turn > math.MaxInt32 {
		return fmt.Errorf("%w: turn %d does not fit 32 bits", ErrBadArgument, turn)
	}
	var coords [4]uint8
	for i, name := range []string{"x", "y", "z", "w"} {
		c := ctx.Uint(name)
		if c >= inter.GridSize {
			return fmt.Errorf("%w: %s=%d is off the %d-cell axis", ErrBadArgument, name, c, inter.GridSize)
		}
		coords[i] = uint8(c)
	}
	a := inter.Attack{
		Turn:      int32(turn),
		X:         coords[0],
		Y:         coords[1],
		Z:         coords[2],
		W:         coords[3],
		Confirmed: ctx.Bool("confirmed"),
	}
	return n.printEncoding(&a)
}

// printEncoding encodes m into the frame arena and reports its wire form next
// to the size of the same record inside an RLP envelope.
func (n *node) printEncoding(m record) error {
	defer n.pools.EndFrame()

	res := serialize.Encode(n.pools.Frame, m)
	env, err := rlp.EncodeToBytes(m)
	if err != nil {
		return err
	}

	fmt.Fprintf(n.out, "hex:   %s\n", hexutil.Encode(res.Bytes()))
	fmt.Fprintf(n.out, "bits:  %d\n", serialize.Size(m))
	fmt.Fprintf(n.out, "bytes: %d\n", res.SizeBytes)
	fmt.Fprintf(n.out, "rlp:   %d\n", len(env))

	n.log.WithFields(logrus.Fields{
		"bytes": res.SizeBytes,
		"frame": n.pools.Frame.Len(),
	}).Debug("Record encoded")
	return nil
}

func decodeRecord(fresh func() record) func(ctx *cli.Context, n *node) error {
	return func(ctx *cli.Context, n *node) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("%w: expected one hex argument, got %d", ErrBadArgument, ctx.NArg())
		}
		raw, err := hexutil.Decode(ctx.Args().First())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadArgument, err)
		}

		m := fresh()
		if want := (serialize.Size(m) + 7) / 8; len(raw) != want {
			return fmt.Errorf("%w: %d bytes, want %d", ErrBadLength, len(raw), want)
		}
		if err := serialize.Unmarshal(raw, m); err != nil {
			return err
		}

		fields := m.RPCMarshal()
		if a, ok := m.(*inter.Attack); ok && !a.Valid() {
			n.log.WithField("attack", fields).Warn("Attack targets a cell off the board")
		}

		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(n.out, string(out))
		return nil
	}
}

func soak(ctx *cli.Context, n *node) error {
	frames, perFrame := ctx.Int("frames"), ctx.Int("per-frame")
	if frames < 0 || perFrame < 0 {
		return fmt.Errorf("%w: negative frame count", ErrBadArgument)
	}
	size := (serialize.Size(&inter.Probe{}) + 7) / 8
	if perFrame*size >= n.pools.Frame.Cap() {
		return fmt.Errorf("%w: %d probes of %d bytes do not fit the %d byte frame arena",
			ErrBadArgument, perFrame, size, n.pools.Frame.Cap())
	}

	var total, peak int
	for f := 0; f < frames; f++ {
		for i := 0; i < perFrame; i++ {
			in := inter.Probe{
				Seq:      uint32(f*perFrame + i),
				Channel:  uint8(i),
				Reliable: i%2 == 0,
				Latency:  float32(i) / 4,
			}
			res := serialize.Encode(n.pools.Frame, &in)

			var out inter.Probe
			serialize.Decode(res.Bytes(), &out)
			if out != in {
				return fmt.Errorf("frame %d record %d: decoded %+v, want %+v", f, i, out, in)
			}
			total += res.SizeBytes
		}
		if used := n.pools.Frame.Len(); used > peak {
			peak = used
		}
		n.pools.EndFrame()
	}

	fmt.Fprintf(n.out, "frames:  %d\n", n.pools.Frames())
	fmt.Fprintf(n.out, "records: %d\n", frames*perFrame)
	fmt.Fprintf(n.out, "bytes:   %d\n", total)
	fmt.Fprintf(n.out, "peak:    %d\n", peak)
	n.log.WithFields(logrus.Fields{"frames": frames, "bytes": total}).Info("Soak finished")
	return nil
}

func conns(ctx *cli.Context, n *node) error {
	slots := ctx.Int("max")
	if slots <= 0 {
		return fmt.Errorf("%w: table capacity %d", ErrBadArgument, slots)
	}
	if free := n.pools.Session.Remaining(); slots > free/conntable.SlotSize {
		return fmt.Errorf("%w: %d slots need %d bytes, the session arena has %d free",
			ErrBadArgument, slots, conntable.Bytes(slots), free)
	}
	tbl := conntable.New(n.pools.Session, slots)
	defer n.pools.EndSession()

	for _, s := range splitCSV(ctx.String("add")) {
		addr, err := peeraddr.FromHostPort(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		slot, err := tbl.Add(addr.Uint64())
		if errors.Is(err, conntable.ErrTableFull) {
			n.log.WithField("peer", s).Warn("Connection table full, peer dropped")
			continue
		}
		n.log.WithFields(logrus.Fields{"peer": s, "slot": slot}).Debug("Peer connected")
	}

	for _, s := range splitCSV(ctx.String("free")) {
		slot, err := strconv.Atoi(s)
		if err != nil || !tbl.InUse(slot) {
			return fmt.Errorf("%w: slot %q is not in use", ErrBadArgument, s)
		}
		tbl.Free(slot)
	}

	fmt.Fprintf(n.out, "connections: %d/%d\n", tbl.Len(), tbl.Cap())
	for i := 0; i < tbl.Cap(); i++ {
		if tbl.InUse(i) {
			addr := peeraddr.FromUint64(tbl.Addr(i))
			fmt.Fprintf(n.out, "%3d  %s  %s\n", i, addr.HostPort(), addr)
		}
	}
	return nil
}

func dumpConfig(ctx *cli.Context, n *node) error {
	// The DSN carries the Sentry secret key.
	cfg := n.cfg
	cfg.Log.SentryDSN = ""
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = n.out.Write(out)
	return err
}
