package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/recframe"
)

// skipCounter tallies regions a Skip scan stepped over.
type skipCounter struct {
	recframe.NopHooks
	regions int
	bytes   int64
}

func (c *skipCounter) RecordSkipped(_ int64, n int, _ string) {
	c.regions++
	c.bytes += int64(n)
}

func newVerifyCmd(g *globalFlags) *cobra.Command {
	var skip bool
	c := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check every record in a segment file",
		Long: `Scan a segment file and verify each record's length and checksum.

Exits non-zero on the first bad record, or, with --skip, if any bytes had to
be skipped to resynchronise.

Example:
  recframe verify data/000001.seg
  recframe verify --skip data/000001.seg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := recframe.Halt
			if skip {
				policy = recframe.Skip
			}
			hooks := &skipCounter{}
			seg, done, err := g.openSegment(cmd, args[0], policy, hooks)
			if err != nil {
				return err
			}
			defer done()

			var records int
			var payload int64
			scanErr := seg.Scan(func(_ int64, rec recframe.Record[[]byte]) error {
				records++
				payload += int64(rec.Header.Length)
				return nil
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d records, %d payload bytes, %d file bytes\n", args[0], records, payload, seg.Size())
			if hooks.regions > 0 {
				fmt.Fprintf(out, "skipped %d regions (%d bytes)\n", hooks.regions, hooks.bytes)
			}

			switch {
			case scanErr != nil && errors.Is(scanErr, recframe.ErrTruncated):
				return fmt.Errorf("torn tail: %w", scanErr)
			case scanErr != nil:
				return fmt.Errorf("corrupt: %w", scanErr)
			case hooks.regions > 0:
				return fmt.Errorf("%d corrupt regions skipped", hooks.regions)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	c.Flags().BoolVar(&skip, "skip", false, "continue past corrupt records")
	return c
}
