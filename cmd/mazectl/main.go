// Command mazectl is the operator tool for maze pursuit levels. It validates
// and analyzes level files, runs the solver against a level, and writes
// generated mazes out as level files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mazectl:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "mazectl",
		Usage:  "inspect, solve and generate maze pursuit levels",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level-dir",
				Value:   "levels",
				Usage:   "directory containing level files",
				Sources: cli.EnvVars("LEVEL_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check level files for errors",
				ArgsUsage: "[file.json ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := levelFiles(cmd.String("level-dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}
					return runValidate(out, files)
				},
			},
			{
				Name:      "analyze",
				Usage:     "print reachability and solver statistics for levels",
				ArgsUsage: "[file.json ...]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-expansions",
						Value: engine.DefaultMaxExpansions,
						Usage: "solver search budget",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := levelFiles(cmd.String("level-dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}
					return runAnalyze(ctx, out, files, int(cmd.Int("max-expansions")))
				},
			},
			{
				Name:      "solve",
				Usage:     "find a safe route through a level",
				ArgsUsage: "<level-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-expansions",
						Value: engine.DefaultMaxExpansions,
						Usage: "solver search budget",
					},
					&cli.BoolFlag{
						Name:  "heuristic",
						Usage: "order the search by distance to the finish",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Value: 10 * time.Second,
						Usage: "give up after this long",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("solve needs exactly one level id")
					}
					ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
					defer cancel()
					return runSolve(ctx, out, cmd.String("level-dir"), cmd.Args().First(),
						int(cmd.Int("max-expansions")), cmd.Bool("heuristic"))
				},
			},
			{
				Name:  "generate",
				Usage: "write a random maze as a level file",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Value: 8, Usage: "maze width in cells"},
					&cli.IntFlag{Name: "height", Value: 8, Usage: "maze height in cells"},
					&cli.IntFlag{Name: "seed", Usage: "random seed, 0 picks one from the clock"},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					seed := int64(cmd.Int("seed"))
					if seed == 0 {
						seed = time.Now().UnixNano()
					}
					return runGenerate(out, int(cmd.Int("width")), int(cmd.Int("height")), seed, cmd.String("out"))
				},
			},
		},
	}
}

// levelFiles returns the explicit files, or every *.json in dir.
func levelFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding level files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files in %s", dir)
	}
	return files, nil
}
