package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/workbook"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [workbook.xlsx]",
	Short: "Export an analysis result as JSON or YAML",
	Long:  "Analyzes the given workbook and writes the full result. Without a workbook argument, exports the most recently stored run instead.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var res *model.AnalysisResult
		if len(args) == 1 {
			tables, err := workbook.Load(args[0])
			if err != nil {
				return err
			}
			pipe, err := newPipeline()
			if err != nil {
				return err
			}
			res, err = pipe.Compute(tables, time.Now())
			if err != nil {
				return err
			}
		} else {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			if st == nil {
				return eris.New("export: no workbook given and store driver is none")
			}
			defer st.Close()

			run, err := st.LatestRun(ctx)
			if err != nil {
				return eris.Wrap(err, "export: load latest run")
			}
			res = run.Result
		}

		payload, err := marshalResult(res, exportFormat)
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			_, err = os.Stdout.Write(payload)
			return err
		}
		if err := os.WriteFile(exportOut, payload, 0o644); err != nil {
			return eris.Wrap(err, "export: write output file")
		}
		zap.L().Info("export written",
			zap.String("path", exportOut),
			zap.Int("opportunities", len(res.Opportunities)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func marshalResult(res *model.AnalysisResult, format string) ([]byte, error) {
	switch format {
	case "json":
		payload, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "export: marshal json")
		}
		return append(payload, '\n'), nil
	case "yaml":
		payload, err := yaml.Marshal(res)
		if err != nil {
			return nil, eris.Wrap(err, "export: marshal yaml")
		}
		return payload, nil
	default:
		return nil, eris.Errorf("export: unknown format %q", format)
	}
}
