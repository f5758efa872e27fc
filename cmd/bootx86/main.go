// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ezrec/bootx86/boot"
	"github.com/ezrec/bootx86/cpu"
	"github.com/ezrec/bootx86/emulator"
	"github.com/ezrec/bootx86/translate"
)

// assembleFile assembles a source file, closing it before returning.
func assembleFile(emu *emulator.Emulator, path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = emu.Assemble(inf)
	return
}

func main() {
	var compile string
	var output string
	var signature bool
	var fullWord bool
	var maxTicks int
	var verbose bool
	var step bool
	var pretty bool
	var dump bool
	var lang string

	flag.StringVar(&compile, "c", "", ".s file to assemble and boot")
	flag.StringVar(&output, "o", "", "Write the assembled image, do not execute")
	flag.BoolVar(&signature, "s", false, "Require the 0xAA55 boot signature")
	flag.BoolVar(&fullWord, "w", false, "Load a full word for 'mov ax, [addr]'")
	flag.IntVar(&maxTicks, "n", 0, "Stop after this many instructions (0 is no limit)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&step, "step", false, "Interactively single step")
	flag.BoolVar(&pretty, "pp", false, "Pretty print the final machine state")
	flag.BoolVar(&dump, "dump", true, "Dump the boot sector bytes")
	flag.StringVar(&lang, "lang", "", "Message language")

	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	if flag.NArg() > 1 {
		logrus.Fatalf("%v: Too many arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.FullWordA1 = fullWord
	emu.Loader.RequireSignature = signature
	emu.MaxTicks = maxTicks

	if len(compile) != 0 {
		prog, err := assembleFile(emu, compile)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}

		if len(output) != 0 {
			image, err := prog.Image(boot.SECTOR_SIZE)
			if err != nil {
				logrus.Fatalf("%v: %v", compile, err)
			}
			err = os.WriteFile(output, image, 0o644)
			if err != nil {
				logrus.Fatalf("%v: %v", output, err)
			}
			return
		}

		err = emu.BootProgram()
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
	} else {
		image := "test.bin"
		if flag.NArg() == 1 {
			image = flag.Arg(0)
		}

		path, err := filepath.Abs(image)
		if err != nil {
			logrus.Fatalf("%v: %v", image, err)
		}

		err = emu.BootFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			logrus.Fatal(err)
		}
	}

	if dump {
		emu.DumpSector(os.Stdout)
	}

	if step {
		dbg := &emulator.Debugger{
			Emu: emu,
			In:  os.Stdin,
			Out: os.Stdout,
		}

		var state *term.State
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			var err error
			state, err = term.MakeRaw(fd)
			if err != nil {
				logrus.Fatal(err)
			}
			dbg.Newline = "\r\n"
		}

		err := dbg.Run()
		if state != nil {
			term.Restore(fd, state)
		}
		if err != nil {
			logrus.Error(err)
		}
	} else {
		err := emu.Run()
		if err != nil {
			logrus.Error(err)
		}
		emu.DumpFault(os.Stdout)
		emu.DumpRegisters(os.Stdout)
	}

	if pretty {
		pp.Println(emu.Snapshot())
	}
}
