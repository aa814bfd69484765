package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/recframe"
	"github.com/unkn0wn-root/recframe/codec"
	zaplog "github.com/unkn0wn-root/recframe/log/zap"
	"github.com/unkn0wn-root/recframe/segment"
)

type globalFlags struct {
	checksum   string
	maxPayload uint64
	verbose    bool
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "recframe",
		Short: "Inspect files of checksummed length-prefixed records",
		Long: `recframe reads segment files made of framed records:

  checksum(u32 be) | length(u32 be) | payload

and checks every record's checksum and length.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.checksum, "checksum", "crc32", "checksum algorithm: crc32 or crc32c")
	root.PersistentFlags().Uint64Var(&g.maxPayload, "max-payload", 64<<20, "largest payload accepted, in bytes")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVerifyCmd(g), newDumpCmd(g))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (g *globalFlags) logger(cmd *cobra.Command) *zap.Logger {
	lvl := zapcore.WarnLevel
	if g.verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(cmd.ErrOrStderr()), lvl))
}

func (g *globalFlags) openSegment(cmd *cobra.Command, path string, policy recframe.CorruptPolicy, hooks recframe.Hooks) (*segment.Segment[[]byte], func(), error) {
	var sum recframe.Checksum
	switch g.checksum {
	case "crc32", "":
		sum = recframe.CRC32IEEE
	case "crc32c":
		sum = recframe.CRC32C
	default:
		return nil, nil, fmt.Errorf("unknown checksum %q", g.checksum)
	}
	f, err := recframe.NewFramer(recframe.FramerOptions[[]byte]{
		Codec:      codec.Bytes{},
		Checksum:   sum,
		MaxPayload: g.maxPayload,
	})
	if err != nil {
		return nil, nil, err
	}

	zl := g.logger(cmd)
	seg, err := segment.Open(segment.Options[[]byte]{
		Path:      path,
		Framer:    f,
		ReadOnly:  true,
		OnCorrupt: policy,
		Logger:    zaplog.New(zl),
		Hooks:     hooks,
	})
	if err != nil {
		_ = zl.Sync()
		return nil, nil, err
	}
	return seg, func() {
		_ = seg.Close()
		_ = zl.Sync()
	}, nil
}
