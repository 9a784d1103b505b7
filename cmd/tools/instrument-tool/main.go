package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"career-matching-workers/internal/matching/riasec"
	"career-matching-workers/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	careerCmd := flag.NewFlagSet("add-career", flag.ExitOnError)

	exportPath := exportCmd.String("path", "configs/instrument.json", "Where to write the built-in instrument")

	validatePath := validateCmd.String("path", "configs/instrument.json", "Path to instrument file")

	careerPath := careerCmd.String("path", "configs/instrument.json", "Path to instrument file")
	name := careerCmd.String("name", "", "Career name (e.g., Marine Biologist)")
	code := careerCmd.String("code", "", "Holland code, 1-3 letters (e.g., IRS)")
	pathway := careerCmd.String("pathway", "", "Pathway (e.g., STEM)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		inst := registry.Default()
		inst.LastUpdated = time.Now().UTC().Format("2006-01-02")
		if err := inst.Save(*exportPath); err != nil {
			fail("export failed: %v", err)
		}
		fmt.Printf("Wrote %s (%d items, %d careers) to %s\n", inst.Version, len(inst.Items), len(inst.Careers), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		inst, err := registry.Load(*validatePath)
		if err != nil {
			fail("failed to load instrument: %v", err)
		}
		if err := inst.Validate(); err != nil {
			fail("instrument validation failed: %v", err)
		}
		fmt.Printf("Instrument %s is valid: %d items, %d careers.\n", inst.Version, len(inst.Items), len(inst.Careers))

	case "add-career":
		careerCmd.Parse(os.Args[2:])
		if *name == "" || *code == "" {
			fmt.Println("Error: name and code are required for add-career.")
			careerCmd.Usage()
			os.Exit(1)
		}
		inst, err := registry.Load(*careerPath)
		if err != nil {
			fail("failed to load instrument: %v", err)
		}
		if err := inst.AddCareer(riasec.Career{Name: *name, Code: *code, Pathway: *pathway}); err != nil {
			fail("invalid career: %v", err)
		}
		inst.LastUpdated = time.Now().UTC().Format("2006-01-02")
		if err := inst.Save(*careerPath); err != nil {
			fail("save failed: %v", err)
		}
		fmt.Printf("Saved career %s (%s)\n", *name, *code)

	default:
		help()
	}
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func help() {
	fmt.Println(`
Usage: instrument-tool <command> [flags]

Commands:
  export      Write the built-in questionnaire and career catalog to a file
  validate    Validate an instrument file
  add-career  Add or replace a career in an instrument file
  help        Show this help message

Examples:
  instrument-tool export -path configs/instrument.json
  instrument-tool validate -path configs/instrument.json
  instrument-tool add-career -name "Marine Biologist" -code IRS -pathway STEM`)
}
