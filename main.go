package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corpspeak/stratcomm/config"
	"github.com/corpspeak/stratcomm/debugger"
	"github.com/corpspeak/stratcomm/parser"
	"github.com/corpspeak/stratcomm/vm"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode (CLI)")
		tuiMode     = flag.Bool("tui", false, "Start in TUI debugger mode")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before halting with an error (0 = use config default)")
		seed        = flag.Int64("seed", 0, "Random source seed (0 = use config default)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		enableStats = flag.Bool("stats", false, "Enable performance statistics")
		enableCov   = flag.Bool("coverage", false, "Track instruction coverage and report it at exit")
		entryLabel  = flag.String("entry-label", "", "Start execution at this label instead of instruction 0")
		dumpSymbols = flag.Bool("dump-symbols", false, "Dump the symbol table and exit")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("Strategic Communication interpreter %s (%s)\n", Version, Commit)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	sourcePath := flag.Arg(0)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Parsing %s...\n", sourcePath)
	}

	program, err := parser.ParseFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	if *dumpSymbols {
		dumpSymbolTable(program.Symbols)
		os.Exit(0)
	}

	if *verboseMode {
		fmt.Printf("Parsed %d instructions, %d labels\n", len(program.Instructions), len(program.Symbols.All()))
	}

	effectiveSeed := cfg.Execution.Seed
	if *seed != 0 {
		effectiveSeed = *seed
	}
	machine := vm.NewVM(program, vm.NewDefaultRandomSource(effectiveSeed))

	machine.CycleLimit = cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		machine.CycleLimit = *maxCycles
	}

	if *entryLabel != "" {
		sym, ok := program.Symbols.Lookup(strings.ToLower(strings.Join(strings.Fields(*entryLabel), " ")))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown entry label %q\n", *entryLabel)
			os.Exit(1)
		}
		machine.PC = sym.Index
	}

	if *enableCov {
		machine.Coverage = vm.NewCodeCoverage(len(program.Instructions))
	}

	if *enableTrace || cfg.Execution.EnableTrace {
		path := *traceFile
		if path == "" {
			path = cfg.Trace.OutputFile
		}
		if filepath.Dir(path) == "." {
			path = filepath.Join(config.GetLogPath(), path)
		}
		traceWriter, err := os.Create(path) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer traceWriter.Close()

		machine.Trace = vm.NewExecutionTrace(cfg.Trace.MaxEntries)
		machine.Trace.Writer = traceWriter
	}

	if *enableStats || cfg.Execution.EnableStats {
		machine.Statistics = vm.NewPerformanceStatistics()
	}

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine, program, cfg.Debugger.HistorySize)

		if *tuiMode {
			tui := debugger.NewTUI(dbg)
			if err := tui.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Println("Strategic Communication Debugger - type 'help' for commands")
		runCLI(dbg)
		return
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error at instruction #%d: %v\n", machine.PC, err)
		flushDiagnostics(machine, *verboseMode)
		os.Exit(1)
	}

	flushDiagnostics(machine, *verboseMode)
}

func flushDiagnostics(machine *vm.VM, verbose bool) {
	if machine.Trace != nil {
		if err := machine.Trace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing execution trace: %v\n", err)
		}
	}
	if machine.Statistics != nil && verbose {
		fmt.Println()
		fmt.Println(machine.Statistics.String())
	}
	if machine.Coverage != nil {
		fmt.Println()
		fmt.Println(machine.Coverage.String())
	}
}

func runCLI(dbg *debugger.Debugger) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("(stratcomm) ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "quit" || line == "q" {
			return
		}
		if err := dbg.ExecuteCommand(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Print(dbg.GetOutput())
	}
}

func printHelp() {
	fmt.Printf(`Strategic Communication interpreter %s

Usage: stratcomm [options] <source-file>

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -max-cycles N      Maximum cycles before halting with an error
  -seed N            Random source seed
  -verbose           Enable verbose output
  -trace             Enable execution trace
  -trace-file FILE   Trace output file
  -stats             Enable performance statistics
  -coverage          Track and report instruction coverage
  -entry-label NAME  Start execution at this label instead of instruction 0
  -dump-symbols      Dump the symbol table and exit

Examples:
  stratcomm examples/digits.sc
  stratcomm -debug examples/digits.sc
  stratcomm -tui -seed 42 examples/random_digit.sc
`, Version)
}

func dumpSymbolTable(symbols *parser.SymbolTable) {
	all := symbols.All()
	if len(all) == 0 {
		fmt.Println("No labels defined")
		return
	}

	fmt.Println("Symbol Table")
	fmt.Println("============")
	fmt.Printf("%-30s %-10s %s\n", "Label", "Index", "Line")
	fmt.Println("--------------------------------------------------------------")

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return all[names[i]].Index < all[names[j]].Index
	})

	for _, name := range names {
		sym := all[name]
		fmt.Printf("%-30s %-10d %d\n", name, sym.Index, sym.Line)
	}
}
