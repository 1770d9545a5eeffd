package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"circuitcore/load"
	"circuitcore/mna/debug"
	"circuitcore/simulation"
	"circuitcore/unit"

	"github.com/spf13/cobra"
)

var (
	startText, stopText, stepText string
	strategyName                  string
	tolerance                     float64
	labelList                     string
	htmlPath, pngPath             string
	csvPath, jsonPath             string
	serveAddr                     string
)

var runCmd = &cobra.Command{
	Use:   "run <netlist>",
	Short: "运行瞬态仿真",
	Long: `按 .tran 或命令行参数运行瞬态仿真，打印末步结果。
网表为 "-" 时从标准输入读取，输出路径为 "-" 时写到标准输出。

Examples:
  circuit run rc.cir
  circuit run --step 10u --stop 5m --labels "V(out),I(C1)" rc.cir
  circuit run --strategy substitution --png out.png rc.cir
  circuit run --serve localhost:8080 rc.cir`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&startText, "start", "", "start time, overrides .tran")
	runCmd.Flags().StringVar(&stopText, "stop", "", "stop time, overrides .tran")
	runCmd.Flags().StringVar(&stepText, "step", "", "step size, overrides .tran")
	runCmd.Flags().StringVar(&strategyName, "strategy", simulation.StrategyInverse.String(),
		"per-step solve: inverse or substitution")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 0,
		"pivots with magnitude at or below this are singular")
	runCmd.Flags().StringVarP(&labelList, "labels", "l", "",
		"comma separated results to print, default all")
	runCmd.Flags().StringVar(&htmlPath, "html", "", "write charts page")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write voltage plot")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write every step as CSV")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write record as JSON")
	runCmd.Flags().StringVar(&serveAddr, "serve", "", "serve charts page on this address until interrupted")
}

// timing 命令行参数优先，其次 .tran
func timing(deck *load.Deck) (start, stop, step float64, err error) {
	if deck.Tran != nil {
		start, stop, step = deck.Tran.Start, deck.Tran.Stop, deck.Tran.Step
	}
	for _, f := range []struct {
		text string
		dst  *float64
	}{{startText, &start}, {stopText, &stop}, {stepText, &step}} {
		if f.text == "" {
			continue
		}
		if *f.dst, err = unit.ParseAs(f.text, unit.Second); err != nil {
			return 0, 0, 0, err
		}
	}
	if deck.Tran == nil && stepText == "" {
		return 0, 0, 0, errors.New("no .tran in netlist and no --step given")
	}
	return start, stop, step, nil
}

func parseStrategy(name string) (simulation.Strategy, error) {
	for _, st := range []simulation.Strategy{simulation.StrategyInverse, simulation.StrategySubstitution} {
		if strings.EqualFold(name, st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

func runRun(cmd *cobra.Command, args []string) error {
	deck, err := loadDeck(cmd, args[0])
	if err != nil {
		return err
	}
	start, stop, step, err := timing(deck)
	if err != nil {
		return err
	}
	st, err := parseStrategy(strategyName)
	if err != nil {
		return err
	}
	s, err := assemble(cmd, deck, simulation.WithStrategy(st), simulation.WithTolerance(tolerance))
	if err != nil {
		return err
	}
	rec := debug.NewRecord(s.Circuit())

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	res, err := s.Run(ctx, start, stop, step, rec.Update)
	if err != nil {
		return fmt.Errorf("simulation failed after %d steps: %w", res.Steps, err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintf(out, "Steps: %d  Factorizations: %d  Elapsed: %s\n\n",
			res.Steps, res.Factorizations, res.Elapsed)
	}
	if err := printFinal(cmd, rec); err != nil {
		return err
	}
	if err := writeOutputs(cmd, rec); err != nil {
		return err
	}
	if serveAddr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	fmt.Fprintf(out, "serving charts at http://%s\n", ln.Addr())
	return serve(ctx, ln, &debug.Charts{Record: rec})
}

// serve 发布曲线页面，ctx 结束时关闭
func serve(ctx context.Context, ln net.Listener, c *debug.Charts) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", c.Handler)
	srv := &http.Server{Handler: mux}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

// printFinal 打印末步结果
func printFinal(cmd *cobra.Command, rec *debug.Record) error {
	if rec.Len() == 0 {
		return nil
	}
	labels := rec.Labels
	if labelList != "" {
		labels = strings.Split(labelList, ",")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "t = %s\n", unit.Format(rec.Time[rec.Len()-1], unit.Second))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		series, ok := rec.Series(l)
		if !ok {
			return fmt.Errorf("unknown result %q", l)
		}
		u := unit.Ampere
		if strings.HasPrefix(strings.ToUpper(l), "V(") {
			u = unit.Volt
		}
		fmt.Fprintf(out, "  %-12s %s\n", l, unit.Format(series[len(series)-1], u))
	}
	return nil
}

func writeOutputs(cmd *cobra.Command, rec *debug.Record) error {
	outputs := []struct {
		path  string
		write func(w io.Writer) error
	}{
		{htmlPath, (&debug.Charts{Record: rec}).Render},
		{pngPath, func(w io.Writer) error { return rec.Plot(w, "png") }},
		{csvPath, rec.WriteCSV},
		{jsonPath, rec.Render},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		w, err := create(cmd, o.path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		err = o.write(w)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", o.path, err)
		}
	}
	return nil
}
