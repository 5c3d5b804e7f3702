package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/google/shlex"

	"github.com/vpdac/vpdac/automaton"
	"github.com/vpdac/vpdac/config"
	"github.com/vpdac/vpdac/interpreter"
)

var logpath = flag.String("log", "", "log to file")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var rulespath = flag.String("rules", "", "load compile rules from file instead of the XDG config dir")
var argstr = flag.String("args", "", "grammar selection as a single shell-quoted string, split before positional args")

func main() {
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if *argstr != "" {
		split, err := shlex.Split(*argstr)
		if err != nil {
			exitWithError(err)
		}
		args = append(split, args...)
	}
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Llongfile)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			exitWithError(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	rules, err := loadRules(*rulespath)
	if err != nil {
		exitWithError(err)
	}

	name := args[0]
	grammar, ok := builtinGrammars[name]
	if !ok {
		exitWithError(fmt.Errorf("unknown grammar %q (have: %s)", name, grammarNames()))
	}

	g := grammar.build()
	if err := g.Check(); err != nil {
		exitWithError(err)
	}

	profile := rules.ProfileForGrammar(name)
	d, err := automaton.Determinize(g)
	if err != nil {
		exitWithError(err)
	}
	log.Printf("determinized %q to %d states\n", name, len(d.States))
	if profile.Minimize {
		if d, err = automaton.Minimize(d); err != nil {
			exitWithError(err)
		}
		log.Printf("minimized %q to %d states\n", name, len(d.States))
	} else if profile.CanonicalSort {
		d = automaton.Sort(d)
	}
	if profile.Minimize || profile.CanonicalSort {
		if err := d.Check(); err != nil {
			exitWithError(err)
		}
	}
	fmt.Printf("%s: %d states\n", name, len(d.States))

	if len(args) > 1 {
		out, err := interpreter.Run(g, []byte(args[1]), grammar.acc, grammar.accType)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("%v\n", out)
	}
}

// loadRules reads the compile-rule cascade: an explicit -rules path must
// exist, the XDG default may be absent.
func loadRules(path string) (config.RuleSet, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = config.DefaultRuleSetPath(); err != nil {
			return config.RuleSet{}, err
		}
	}
	rs, err := config.LoadRuleSet(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return config.RuleSet{}, nil
		}
		return config.RuleSet{}, err
	}
	if err := rs.Validate(); err != nil {
		return config.RuleSet{}, err
	}
	return rs, nil
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] grammar [input]\n", os.Args[0])
	fmt.Fprintf(f, "Grammars: %s\n", grammarNames())
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
