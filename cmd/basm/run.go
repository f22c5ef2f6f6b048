package main

import (
	"bufio"
	"os"

	"github.com/AtmolanderMimi/basm"
	"github.com/AtmolanderMimi/basm/bf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file",
	Short: "run a bf file, or compile and run a basm source file with --source",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRun(cmd, args[0]); err != nil {
			atExit(err)
		}
	},
}

var runCellBits = cellWidth(8)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-optimize", false, "disable the peephole optimizer")
	runCmd.Flags().Var(&runCellBits, "cell-bits", "bf cell width in bits (8, 16, 32 or 64)")
	runCmd.Flags().Bool("source", false, "treat file as basm source and compile it first instead of raw bf")
	runCmd.Flags().Int("tape-size", 0, "initial bf tape size in cells (0 uses the interpreter default)")
	runCmd.Flags().Bool("no-raw-tty", false, "disable raw terminal IO")
}

func runRun(cmd *cobra.Command, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "reading source")
	}

	program := string(src)
	if GetFlag(cmd, "source") {
		cfg := basm.Config{
			Optimize:  !GetFlag(cmd, "no-optimize"),
			CellWidth: uint(runCellBits),
		}
		program, err = basm.Compile(file, program, cfg)
		if err != nil {
			return err
		}
	}

	var tearDown func()
	if !GetFlag(cmd, "no-raw-tty") {
		tearDown, err = setRawIO()
		if err != nil {
			log.WithError(err).Debug("raw tty unavailable, falling back to line-buffered stdin")
		}
	}
	if tearDown != nil {
		defer tearDown()
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	opts := []bf.Option{
		bf.Input(bufio.NewReader(os.Stdin)),
		bf.Output(stdout),
		bf.CellWidth(uint(runCellBits)),
	}
	if n, _ := cmd.Flags().GetInt("tape-size"); n > 0 {
		opts = append(opts, bf.TapeSize(n))
	}

	interp, err := bf.New(program, opts...)
	if err != nil {
		return err
	}
	return interp.Run()
}
