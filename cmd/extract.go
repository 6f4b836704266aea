package main

import (
	"encoding/json"
	"io"
	"os"

	"oneprompt/internal/ai"
	"oneprompt/internal/export"
	"oneprompt/internal/extract"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExtractCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Split a saved generation reply into html, css, js and text",
		Long:  "Reads a reply from file (or stdin when omitted), prints the extraction result as JSON and optionally writes the site files to a directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return errors.Wrap(err, "failed to read reply")
			}

			result := extract.Extract(ai.DecodeReply(string(raw)))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(result); err != nil {
				return errors.Wrap(err, "failed to print result")
			}

			if outDir == "" {
				return nil
			}
			files := export.Files(result)
			if len(files) == 0 {
				zap.S().Warn("Reply contains no code, nothing written")
				return nil
			}
			return export.WriteDir(outDir, files)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write index.html, styles.css and script.js to")
	return cmd
}
