package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fyerfyer/druid-atpg/pkg/circuit"
)

// Regular expressions for parsing BENCH format
var (
	inputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	gateRegex   = regexp.MustCompile(`^(\w+)\s*=\s*(\w+)\((.+)\)$`)
)

type benchGate struct {
	name    string
	gtName  string
	fanins  []string
	visited int // 0 unseen, 1 on stack, 2 done
}

// ParseBenchFile reads a circuit description in BENCH format and
// returns the built network
func ParseBenchFile(filename string) (*circuit.Network, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), ".bench")
	return ParseBench(name, file)
}

// ParseBench reads BENCH lines from a reader and emits the network
// through the builder
func ParseBench(name string, r io.Reader) (*circuit.Network, error) {
	b := circuit.NewBuilder(name)

	var inputNames []string
	var outputNames []string
	gates := make(map[string]*benchGate)
	var gateOrder []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := inputRegex.FindStringSubmatch(line); m != nil {
			inputNames = append(inputNames, m[1])
			continue
		}
		if m := outputRegex.FindStringSubmatch(line); m != nil {
			outputNames = append(outputNames, m[1])
			continue
		}
		if m := gateRegex.FindStringSubmatch(line); m != nil {
			fanins := strings.Split(m[3], ",")
			for i := range fanins {
				fanins[i] = strings.TrimSpace(fanins[i])
			}
			g := &benchGate{name: m[1], gtName: strings.ToUpper(m[2]), fanins: fanins}
			if _, dup := gates[g.name]; dup {
				return nil, fmt.Errorf("duplicate definition of %q", g.name)
			}
			gates[g.name] = g
			gateOrder = append(gateOrder, g.name)
			continue
		}
		return nil, fmt.Errorf("unrecognized line: %q", line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	refs := make(map[string]int)
	for _, n := range inputNames {
		refs[n] = b.AddInput(n)
	}

	// DFFs come first so their outputs are referable everywhere
	for _, gn := range gateOrder {
		g := gates[gn]
		if g.gtName == "DFF" {
			if len(g.fanins) != 1 {
				return nil, fmt.Errorf("DFF %q needs exactly one data input", g.name)
			}
			refs[g.name] = b.AddDff(g.name)
		}
	}

	// combinational gates in dependency order
	var emit func(gn string) error
	emit = func(gn string) error {
		g, ok := gates[gn]
		if !ok {
			return nil // an input or a DFF output
		}
		if g.gtName == "DFF" {
			return nil
		}
		switch g.visited {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("cyclic fanin through %q", gn)
		}
		g.visited = 1
		faninRefs := make([]int, len(g.fanins))
		for i, fn := range g.fanins {
			if err := emit(fn); err != nil {
				return err
			}
			ref, ok := refs[fn]
			if !ok {
				return fmt.Errorf("gate %q uses undefined signal %q", g.name, fn)
			}
			faninRefs[i] = ref
		}
		gt, ok := circuit.ParseGateType(g.gtName)
		if !ok {
			return fmt.Errorf("unknown gate type %q on %q", g.gtName, g.name)
		}
		refs[g.name] = b.AddGate(g.name, gt, faninRefs...)
		g.visited = 2
		return nil
	}
	for _, gn := range gateOrder {
		if err := emit(gn); err != nil {
			return nil, err
		}
	}

	// connect DFF data inputs now that every signal has a ref
	for _, gn := range gateOrder {
		g := gates[gn]
		if g.gtName != "DFF" {
			continue
		}
		src, ok := refs[g.fanins[0]]
		if !ok {
			return nil, fmt.Errorf("DFF %q uses undefined signal %q", g.name, g.fanins[0])
		}
		if err := b.SetDffSrc(refs[g.name], src); err != nil {
			return nil, err
		}
	}

	for _, on := range outputNames {
		ref, ok := refs[on]
		if !ok {
			return nil, fmt.Errorf("output %q has no driver", on)
		}
		b.AddOutput(on, ref)
	}

	return b.Build()
}
