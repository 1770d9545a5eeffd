package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"circuitcore/load"
	"circuitcore/simulation"

	"github.com/spf13/cobra"
)

var (
	// 全局参数
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "circuit",
	Short: "电路时域仿真",
	Long: `按网表装配电路方程组并逐步求解。

Examples:
  circuit check rc.cir                       # 检查网表并打印方程组
  circuit run rc.cir                         # 按 .tran 运行并打印末步结果
  circuit run --step 1u --stop 2m rc.cir     # 覆盖 .tran 参数
  circuit run --html out.html --csv - rc.cir # 输出曲线网页和CSV`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// logger verbose 时输出调试日志到 stderr
func logger(cmd *cobra.Command) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadDeck 解析网表文件，"-" 表示标准输入
func loadDeck(cmd *cobra.Command, filename string) (*load.Deck, error) {
	var (
		deck *load.Deck
		err  error
	)
	if filename == "-" {
		deck, err = load.Parse(cmd.InOrStdin())
	} else {
		deck, err = load.ParseFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load netlist: %w", err)
	}
	return deck, nil
}

// assemble 装配求解器
func assemble(cmd *cobra.Command, deck *load.Deck, opts ...simulation.Option) (*simulation.Solver, error) {
	opts = append([]simulation.Option{simulation.WithLogger(logger(cmd))}, opts...)
	s, err := simulation.Assemble(deck.Topology, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble circuit: %w", err)
	}
	return s, nil
}

// create 打开输出文件，"-" 表示标准输出
func create(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
