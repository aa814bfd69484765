package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/recframe"
)

const previewLen = 32

var errLimit = errors.New("limit reached")

func newDumpCmd(g *globalFlags) *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a segment file",
		Long: `Print one line per record: offset, payload length, checksum and a
quoted preview of the payload.

Example:
  recframe dump --limit 10 data/000001.seg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seg, done, err := g.openSegment(cmd, args[0], recframe.Halt, nil)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %-10s %-10s %s\n", "OFFSET", "LENGTH", "CHECKSUM", "PAYLOAD")
			n := 0
			err = seg.Scan(func(off int64, rec recframe.Record[[]byte]) error {
				if limit > 0 && n == limit {
					return errLimit
				}
				n++
				fmt.Fprintf(out, "%-12d %-10d %08x   %s\n", off, rec.Header.Length, rec.Header.Checksum, preview(rec.Payload))
				return nil
			})
			if errors.Is(err, errLimit) {
				return nil
			}
			return err
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many records (0 = all)")
	return c
}

func preview(p []byte) string {
	if len(p) <= previewLen {
		return fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("%q...", p[:previewLen])
}
