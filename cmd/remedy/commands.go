package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/remedy"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/ranking"
	"github.com/urfave/cli/v2"
)

var errUsage = errors.New("wrong number of arguments")

func addCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("%w: usage: remedy add <phrase> <resolution>", errUsage)
	}
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	added, err := engine.AddPhrase(ctx, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintln(c.App.Writer, "Row inserted.")
	} else {
		fmt.Fprintln(c.App.Writer, "Row already stored.")
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: usage: remedy search <message>", errUsage)
	}
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	id, err := strategyFor(c, engine)
	if err != nil {
		return err
	}
	k := c.Int("top")

	if !c.Bool("all") {
		results, err := engine.Search(ctx, query, id, k)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, renderResults(results))
		return nil
	}

	results, err := engine.RankAll(ctx, query)
	if err != nil {
		return err
	}
	slices.SortStableFunc(results, func(a, b core.MultiRankedResult) int {
		return cmp.Compare(b.Scores[id], a.Scores[id])
	})
	if k <= 0 {
		k = engine.Config().Ranking.TopK
	}
	fmt.Fprintln(c.App.Writer, renderMultiResults(ranking.Top(results, k)))
	return nil
}

func scanCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: usage: remedy scan <log file>", errUsage)
	}
	path := c.Args().First()
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	id, err := strategyFor(c, engine)
	if err != nil {
		return err
	}
	k := c.Int("top")

	printMatch := func(m remedy.LogMatch) error {
		fmt.Fprintln(c.App.Writer, renderLine(m.Line))
		fmt.Fprintln(c.App.Writer, renderResults(m.Results))
		return nil
	}

	if c.Bool("follow") {
		err := engine.FollowLog(ctx, path, id, k, printMatch)
		if errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	}

	matches, err := engine.ScanLog(ctx, path, id, k)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(c.App.Writer, "No error lines found.")
		return nil
	}
	for _, m := range matches {
		if err := printMatch(m); err != nil {
			return err
		}
	}
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: usage: remedy import <csv file>", errUsage)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	read, added, err := engine.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Imported %d of %d rows (%d already stored).\n", added, read, read-added)
	return nil
}

func exportCommand(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("%w: usage: remedy export [csv file]", errUsage)
	}
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	if c.NArg() == 0 {
		_, err := engine.ExportCSV(ctx, c.App.Writer)
		return err
	}

	f, err := os.Create(c.Args().First())
	if err != nil {
		return err
	}
	n, err := engine.ExportCSV(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Exported %d rows.\n", n)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	records, err := engine.Records(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, renderRecords(records))
	return nil
}

func rebuildModelCommand(c *cli.Context) error {
	ctx, engine, closer, err := openEngine(c)
	if err != nil {
		return err
	}
	defer closer()

	_, err = engine.RebuildModel(ctx)
	return err
}

// strategyFor parses --strategy, falling back to the configured strategy.
func strategyFor(c *cli.Context, engine *remedy.Engine) (core.StrategyID, error) {
	name := c.String("strategy")
	if name == "" {
		return engine.DefaultStrategy(), nil
	}
	return core.ParseStrategy(name)
}
