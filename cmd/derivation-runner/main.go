package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli"

	"github.com/opstack-relay/derive-node/eth"
	"github.com/opstack-relay/derive-node/rollup"
	"github.com/opstack-relay/derive-node/rollup/derive"
	"github.com/opstack-relay/derive-node/rollup/derive/testutils"
)

func main() {
	app := cli.NewApp()
	app.Name = "derivation-runner"
	app.Usage = "drive the derivation pipeline against a fixture and validate its output"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:     "fixture",
			Usage:    "path to the derivation fixture JSON document",
			Required: true,
		},
		cli.StringFlag{
			Name:  "log.level",
			Usage: "verbosity of the structured logger",
			Value: "info",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	lvl, err := log.LvlFromString(cctx.String("log.level"))
	if err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stdout, log.TerminalFormat(true))))
	logger := log.New()

	data, err := os.ReadFile(cctx.String("fixture"))
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}
	fixture, err := testutils.LoadDerivationFixture(data)
	if err != nil {
		return err
	}

	rawL2Provider := fixture.L2ChainProvider()
	l2Provider, err := derive.NewCachingL2ChainProvider(rawL2Provider, 256)
	if err != nil {
		return fmt.Errorf("building cached L2 chain provider: %w", err)
	}
	l1Fetcher := fixture.L1Fetcher()

	cursorNum, end, ok := minMaxKeys(fixture.L2BlockInfos)
	if !ok {
		return fmt.Errorf("no blocks found in fixture")
	}
	cursor, ok := fixture.L2BlockInfos[keyOf(cursorNum)]
	if !ok {
		return fmt.Errorf("no block info found for block %d", cursorNum)
	}

	cfg := &rollup.Config{}
	top := derive.NewAttributesQueue(logger, cfg, l2Provider,
		derive.NewBatchQueue(logger, cfg, l1Fetcher,
			derive.NewChannelBank(logger, cfg,
				derive.NewFrameQueue(logger, cfg,
					derive.NewL1Traversal(logger, l1Fetcher, cfg)))))
	pipeline := derive.NewDerivationPipeline(logger, derive.NoopMetrics{}, cfg, l2Provider, top)

	ctx := context.Background()

	l1Origin, err := l1Fetcher.L1BlockRefByNumber(ctx, cursor.L1Origin.Number)
	if err != nil {
		return fmt.Errorf("resolving start cursor's l1 origin: %w", err)
	}
	if err := pipeline.Signal(ctx, derive.ResetSignal{L2SafeHead: cursor, L1Origin: l1Origin.BlockInfo()}); err != nil {
		return fmt.Errorf("resetting pipeline to starting origin: %w", err)
	}

	advance := false
	for {
		if advance {
			next, err := l2Provider.L2BlockInfoByNumber(ctx, cursor.Number+1)
			if err != nil {
				logger.Error("failed to fetch next pending l2 safe head", "number", cursor.Number+1, "err", err)
				continue
			}
			cursor = next
			advance = false
		}

		logger.Trace("stepping on cursor", "number", cursor.Number, "target", "runner")
		result := pipeline.Step(ctx, cursor)
		classifyStepResult(logger, result)

		attrs := pipeline.Next()
		if attrs == nil {
			logger.Error("must have valid attributes", "target", "runner")
			continue
		}

		expected, ok := fixture.L2Payloads[keyOf(cursor.Number)]
		if !ok {
			return fmt.Errorf("no expected payload found for block %d", cursor.Number)
		}
		if diff := cmp.Diff(expected, attrs.Attributes); diff != "" {
			logger.Error("attributes do not match expected", "target", "runner")
			return fmt.Errorf("attributes do not match expected at block %d:\n%s", cursor.Number, diff)
		}

		if cursor.Number == end {
			logger.Info("all payload attributes successfully validated", "target", "runner")
			return nil
		}
		advance = true
	}
}

func classifyStepResult(logger log.Logger, result derive.StepResult) {
	switch result.Kind {
	case derive.PreparedAttributes:
		logger.Trace("prepared attributes", "target", "loop")
	case derive.AdvancedOrigin:
		logger.Trace("advanced origin", "target", "loop")
	case derive.OriginAdvanceErr:
		logger.Warn("could not advance origin", "err", result.Err, "target", "loop")
	case derive.StepFailed:
		if derive.IsTemporary(result.Err) {
			logger.Debug("not enough data to step derivation pipeline", "target", "loop")
		} else {
			logger.Error("error stepping derivation pipeline", "err", result.Err, "target", "loop")
		}
	}
}

func minMaxKeys(m map[string]eth.L2BlockInfo) (lo, hi uint64, ok bool) {
	first := true
	for _, info := range m {
		if first || info.Number < lo {
			lo = info.Number
		}
		if first || info.Number > hi {
			hi = info.Number
		}
		first = false
	}
	return lo, hi, !first
}

func keyOf(number uint64) string {
	return fmt.Sprintf("%d", number)
}
