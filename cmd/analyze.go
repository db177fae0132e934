package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/pipeline"
	"github.com/insureco/advisor-cli/internal/store"
	"github.com/insureco/advisor-cli/internal/workbook"
)

var (
	analyzeTopN    int
	analyzeNoStore bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <workbook.xlsx> [more.xlsx...]",
	Short: "Score sales opportunities from portfolio workbooks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipe, err := newPipeline()
		if err != nil {
			return err
		}

		var st store.Store
		if !analyzeNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}
		}

		return processWorkbooks(ctx, args, cfg.Analyze.MaxConcurrentWorkbooks, pipe, st)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top", 0, "rows to print per workbook (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "skip persisting the run")
	rootCmd.AddCommand(analyzeCmd)
}

// processWorkbooks analyzes each workbook concurrently. One failed
// workbook does not abort the rest.
func processWorkbooks(ctx context.Context, paths []string, concurrency int, pipe *pipeline.Pipeline, st store.Store) error {
	zap.L().Info("analyzing workbooks",
		zap.Int("workbooks", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("workbook", path))

			res, err := analyzeWorkbook(gctx, path, pipe, st)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.Int("clients", res.ClientCount),
				zap.Int("opportunities", len(res.Opportunities)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "analyze workbooks")
	}

	zap.L().Info("analyze complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func analyzeWorkbook(ctx context.Context, path string, pipe *pipeline.Pipeline, st store.Store) (*model.AnalysisResult, error) {
	tables, err := workbook.Load(path)
	if err != nil {
		return nil, err
	}

	res, err := pipe.Compute(tables, time.Now())
	if err != nil {
		return nil, err
	}

	printTopOpportunities(path, res, topN())

	if st != nil {
		if _, err := st.SaveRun(ctx, path, res, tables); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func topN() int {
	if analyzeTopN > 0 {
		return analyzeTopN
	}
	return cfg.Analyze.TopN
}

func printTopOpportunities(source string, res *model.AnalysisResult, limit int) {
	opps := res.Opportunities
	if limit > 0 && len(opps) > limit {
		opps = opps[:limit]
	}

	fmt.Printf("\n%s: %d clients, %d opportunities\n", source, res.ClientCount, len(res.Opportunities))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tCLIENT\tCATEGORY\tPRODUCT\tPREMIUM\tREASON")
	for i, op := range opps {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%s\t€%d\t%s\n",
			i+1, op.Score, op.ClientName, op.Category, op.ProductName, op.EstimatedPremium, op.Reason)
	}
	w.Flush()
}
