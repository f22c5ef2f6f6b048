package main

import (
	"fmt"
	"os"

	"github.com/AtmolanderMimi/basm"
	"github.com/AtmolanderMimi/basm/parser"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file",
	Short: "compile a basm source file to bf",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompile(cmd, args[0]); err != nil {
			atExit(err)
		}
	},
}

var compileCellBits = cellWidth(8)

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("out", "o", "", "write output to `filename` instead of stdout")
	compileCmd.Flags().Bool("no-optimize", false, "disable the peephole optimizer")
	compileCmd.Flags().Var(&compileCellBits, "cell-bits", "bf cell width in bits (8, 16, 32 or 64)")
}

func runCompile(cmd *cobra.Command, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "reading source")
	}

	cfg := basm.Config{
		Optimize:  !GetFlag(cmd, "no-optimize"),
		CellWidth: uint(compileCellBits),
	}
	log.WithFields(log.Fields{"file": file, "optimize": cfg.Optimize, "cellBits": cfg.CellWidth}).Debug("compiling")

	if log.GetLevel() >= log.DebugLevel {
		if prog, perr := parser.Parse(file, string(src)); perr == nil {
			log.Debug("parsed program:\n" + prog.String())
		}
		if stream, serr := basm.Stream(file, string(src)); serr == nil {
			log.Debug("normalized stream:\n" + stream.String())
		}
	}

	out, err := basm.Compile(file, string(src), cfg)
	if err != nil {
		return err
	}

	outName := GetString(cmd, "out")
	if outName == "" {
		fmt.Println(out)
		return nil
	}
	return errors.Wrap(os.WriteFile(outName, []byte(out), 0644), "writing output")
}
