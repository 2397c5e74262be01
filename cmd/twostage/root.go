package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-twostage/internal/config"
	"github.com/askiada/go-twostage/pkg/pipeline"
	"github.com/askiada/go-twostage/pkg/pipeline/drawer"
	"github.com/askiada/go-twostage/pkg/pipeline/logger"
	"github.com/askiada/go-twostage/pkg/pipeline/measure"
	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

const prompt = "Print value:"

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "twostage",
		Short:        "Run stdin lines through a two-stage pipeline",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := cfg.Validate()
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&cfg.Pipeline.StageDelay, "delay", cfg.Pipeline.StageDelay, "pause of stage A after each item")
	flags.IntVar(&cfg.Pipeline.Capacity, "capacity", cfg.Pipeline.Capacity, "capacity of the stage queues, -1 for unbounded")
	flags.StringVar(&cfg.Pipeline.Sentinel, "sentinel", cfg.Pipeline.Sentinel, "line that ends the input")
	flags.StringVar(&cfg.Output.Format, "format", cfg.Output.Format, "output format, text or json")
	flags.StringVar(&cfg.Output.DOT, "dot", cfg.Output.DOT, "write the stage graph to this DOT file")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level")
	flags.BoolVar(&cfg.Logging.Development, "log-dev", cfg.Logging.Development, "human readable logs")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (err error) {
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}

	msr := measure.NewDefaultMeasure()
	observers := []model.Observer{
		logger.NewObserver(log),
		measure.PipelineMeasure(msr),
	}
	if cfg.Output.DOT != "" {
		file, err := os.Create(cfg.Output.DOT)
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", cfg.Output.DOT)
		}
		defer func() {
			closeErr := file.Close()
			if closeErr != nil && err == nil {
				err = errors.Wrapf(closeErr, "unable to close %s", cfg.Output.DOT)
			}
		}()
		observers = append(observers, drawer.PipelineDrawer(drawer.NewDOTDrawer(file), msr))
	}

	pipe, err := pipeline.New(
		pipeline.WithStageDelay(cfg.Pipeline.StageDelay),
		pipeline.WithCapacity(cfg.Pipeline.Capacity),
		pipeline.WithObservers(observers...),
	)
	if err != nil {
		return err
	}

	src := pipeline.NewLineSource(in, cfg.Pipeline.Sentinel, pipeline.WithPrompt(out, prompt))
	records, runErr := pipe.Run(ctx, src)

	err = writeRecords(out, cfg.Output.Format, records)
	if err != nil {
		return err
	}
	if runErr != nil {
		log.Error("pipeline failed", zap.String(logger.FieldRunID, pipe.RunID()), zap.Error(runErr))

		return runErr
	}

	summary := measure.Summarize(records)
	log.Info("pipeline done",
		zap.String(logger.FieldRunID, pipe.RunID()),
		zap.Int("count", summary.Count),
		zap.Duration("mean_latency", summary.Total.Mean),
		zap.Duration("max_latency", summary.Total.Max),
	)
	_, err = fmt.Fprintln(out, "DONE")

	return err
}
