package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
)

// write prints v in the selected format and, with --out, saves it to a file
func (a *app) write(cmd *cobra.Command, v any, kind codec.FrameKind) error {
	data, err := codec.Encode(v, a.format, kind)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if a.outPath == "" {
		return nil
	}

	format, err := codec.FormatFromPath(a.outPath)
	if err != nil {
		return err
	}
	if format != a.format {
		if data, err = codec.Encode(v, format, kind); err != nil {
			return err
		}
	}
	if err := os.WriteFile(a.outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.outPath, err)
	}

	a.logger.Debug("Output written", logging.Path(a.outPath), logging.Int("bytes", len(data)))
	return nil
}
