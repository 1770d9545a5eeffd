package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showMatrix bool

var checkCmd = &cobra.Command{
	Use:   "check <netlist>",
	Short: "解析并装配网表，不运行仿真",
	Long: `解析网表并装配方程组，打印元件、节点和每行结果名称。

Examples:
  circuit check rc.cir
  circuit check --matrix rc.cir`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&showMatrix, "matrix", "m", false,
		"print F and S after stamping")
}

func runCheck(cmd *cobra.Command, args []string) error {
	deck, err := loadDeck(cmd, args[0])
	if err != nil {
		return err
	}
	s, err := assemble(cmd, deck)
	if err != nil {
		return err
	}
	c := s.Circuit()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Components: %d\n", len(c.Bindings)-len(deck.Nodes))
	fmt.Fprintf(out, "Nodes:      %d\n", len(deck.Nodes))
	fmt.Fprintf(out, "Equations:  %d\n", c.Size())
	if deck.Tran != nil {
		fmt.Fprintf(out, "Tran:       step=%g stop=%g start=%g\n", deck.Tran.Step, deck.Tran.Stop, deck.Tran.Start)
	}
	fmt.Fprintln(out)
	for row, label := range c.Labels() {
		fmt.Fprintf(out, "  %3d  %s\n", row, label)
	}
	if showMatrix {
		fmt.Fprintln(out)
		fmt.Fprint(out, c.System.String())
	}
	return nil
}
