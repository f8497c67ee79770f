// Command i8080 loads an 8080 binary and runs, disassembles, or debugs it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"i8080emu/bdos"
	"i8080emu/console"
	"i8080emu/cpu"
	"i8080emu/disassemble"
	ioports "i8080emu/io"
	"i8080emu/memory"
	"i8080emu/monitor"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "i8080",
		Short: "Intel 8080 emulator",
	}

	var loadAddr uint16
	var hz int

	runCmd := &cobra.Command{
		Use:   "run [binary]",
		Short: "Load a raw binary under the BDOS print shim and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mem := memory.NewFlat()
			start := bdos.LoadCOM(mem, image)
			if cmd.Flags().Changed("load-addr") {
				memory.LoadAt(mem, loadAddr, image)
				start = loadAddr
			}

			con := console.New(0x00, 0x01, os.Stdout)
			e, err := cpu.New(mem, con)
			if err != nil {
				return err
			}
			e.Init()
			e.PC = start

			shim := bdos.New(os.Stdout)
			cycles, err := pacedRun(e, mem, shim, hz)
			fmt.Fprintf(os.Stderr, "\n%d cycles elapsed\n", cycles)
			return err
		},
	}
	runCmd.Flags().Uint16Var(&loadAddr, "load-addr", 0x0100, "override the CP/M-style 0x100 load address")
	runCmd.Flags().IntVar(&hz, "hz", 0, "pace execution to approximate this clock rate in Hz (0 = run as fast as possible)")

	disasmCmd := &cobra.Command{
		Use:   "disasm [binary]",
		Short: "Disassemble a raw binary from address 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mem := memory.NewFlat()
			memory.LoadAt(mem, 0, image)
			pc := uint16(0)
			for int(pc) < len(image) {
				text, n := disassemble.Step(pc, mem)
				fmt.Println(text)
				pc += uint16(n)
			}
			return nil
		},
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor [binary]",
		Short: "Load a binary and step through it in an interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mem := memory.NewFlat()
			start := bdos.LoadCOM(mem, image)
			e, err := cpu.New(mem, ioports.Null{})
			if err != nil {
				return err
			}
			e.Init()
			e.PC = start
			return monitor.New(e, mem).Run()
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd, monitorCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// pacedRun drives the engine like bdos.Run but sleeps periodically to
// approximate a target clock rate, the way a host loop driving real
// hardware-rate emulation would.
func pacedRun(e *cpu.Engine, mem memory.Bank, shim *bdos.Shim, hz int) (uint64, error) {
	if hz <= 0 {
		return bdos.Run(e, mem, shim)
	}

	const batch = 2000 // T-states per pacing check
	var cycles uint64
	budget := 0
	start := time.Now()
	for {
		if shim.AtEntry(e) {
			if err := shim.Service(e, mem); err != nil {
				return cycles, err
			}
		}
		n := e.Step()
		cycles += uint64(n)
		budget += n
		if e.PC == 0x0000 {
			return cycles, nil
		}
		if budget >= batch {
			wantElapsed := time.Duration(float64(cycles) / float64(hz) * float64(time.Second))
			if actual := time.Since(start); wantElapsed > actual {
				time.Sleep(wantElapsed - actual)
			}
			budget = 0
		}
	}
}
