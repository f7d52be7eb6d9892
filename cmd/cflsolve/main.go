// Command cflsolve solves capacitated facility location instances from
// whitespace-delimited text files.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	cfl "github.com/avidalp/cflsolve"
)

const exampleInstance = `3 4
100 120 80
50 60 40
25 30 20 35
10 15 12
8 20 18
12 10 25
15 8 14
`

func main() {
	defer klog.Flush()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cflsolve",
		Short:         "Capacitated facility location solver (branch-and-bound)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klog.InitFlags(nil)
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	root.AddCommand(
		newSolveCommand(),
		newShowCommand(),
		newFormatCommand(),
		newExampleCommand(),
	)
	return root
}

func newSolveCommand() *cobra.Command {
	var (
		configPath string
		maxIter    int
		tolerance  float64
		tracePath  string
		plotPath   string
	)

	cmd := &cobra.Command{
		Use:   "solve <instance-file>",
		Short: "Solve an instance to proven optimality within tolerance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfl.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = cfl.LoadConfig(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("max-iterations") {
				cfg.MaxIterations = maxIter
			}
			if cmd.Flags().Changed("tolerance") {
				cfg.Tolerance = tolerance
			}

			inst, err := cfl.LoadInstance(args[0])
			if err != nil {
				return err
			}

			opts := cfg.Options()

			var tracer *cfl.TreeLogger
			var recorder *cfl.BoundRecorder
			var mws []cfl.Middleware
			if tracePath != "" {
				tracer = cfl.NewTreeLogger()
				mws = append(mws, tracer)
			}
			if plotPath != "" {
				recorder = cfl.NewBoundRecorder()
				mws = append(mws, recorder)
			}
			if len(mws) > 0 {
				opts.Middleware = cfl.CombineMiddleware(mws...)
			}

			res, err := cfl.Solve(inst, opts)
			if err != nil {
				return err
			}

			printResult(cmd, res, cfg)

			if tracer != nil {
				if err := tracer.WriteDOT(tracePath); err != nil {
					return err
				}
				cmd.Printf("search tree written to %s\n", tracePath)
			}
			if recorder != nil {
				if err := recorder.WriteChart(plotPath); err != nil {
					return err
				}
				cmd.Printf("convergence chart written to %s\n", plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML solver config file")
	cmd.Flags().IntVar(&maxIter, "max-iterations", cfl.DefaultConfig().MaxIterations, "iteration budget (nodes dequeued)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", cfl.DefaultConfig().Tolerance, "numerical tolerance for bounds and the optimality gap")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write the search tree as a DOT file to this path")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a bound-convergence HTML chart to this path")
	return cmd
}

func printResult(cmd *cobra.Command, res cfl.Result, cfg cfl.Config) {
	if !res.Feasible {
		cmd.Println("no feasible solution found")
		cmd.Printf("iterations: %d, wall time: %.3fs\n", res.Iterations, res.WallTime.Seconds())
		return
	}

	cmd.Printf("best value:  %.2f\n", res.BestValue)
	cmd.Printf("lower bound: %.2f (gap %.2g)\n", res.LowerBound, res.Gap())
	cmd.Printf("iterations:  %d\n", res.Iterations)
	cmd.Printf("wall time:   %.3fs\n", res.WallTime.Seconds())
	if res.Iterations >= cfg.MaxIterations && res.Gap() > cfg.Tolerance {
		cmd.Println("iteration budget exhausted before the gap closed; solution may be suboptimal")
	}

	cmd.Print("open sources:")
	for j, v := range res.BestY {
		if v > 0.5 {
			cmd.Printf(" %d", j)
		}
	}
	cmd.Println()
	for j, v := range res.BestY {
		state := "closed"
		if v > 0.5 {
			state = "open"
		}
		cmd.Printf("  source %d: %s\n", j, state)
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <instance-file>",
		Short: "Print a parsed instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := cfl.LoadInstance(args[0])
			if err != nil {
				return err
			}
			cmd.Print(inst.String())
			return nil
		},
	}
}

func newFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Describe the instance file format",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("Instance file format (whitespace-delimited):")
			cmd.Println("  line 1:       m n        (number of sources, number of clients)")
			cmd.Println("  line 2:       m capacities")
			cmd.Println("  line 3:       m activation costs")
			cmd.Println("  line 4:       n demands")
			cmd.Println("  lines 5..n+4: n rows of m transport costs,")
			cmd.Println("                row i column j = unit cost of serving client i from source j")
			cmd.Println()
			cmd.Println("Example for 3 sources and 4 clients:")
			cmd.Print(exampleInstance)
		},
	}
}

func newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example <path>",
		Short: "Write an example instance file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.WriteFile(args[0], []byte(exampleInstance), 0o644); err != nil {
				return err
			}
			cmd.Printf("example instance written to %s\n", args[0])
			return nil
		},
	}
}
