// Command presetcheck validates vehicle preset JSON files before they are
// dropped into the server's presets directory. For each file it checks:
//   - JSON structure and required fields (kind, brand, model)
//   - Fuel capacity and year are not negative
//   - The preset actually builds a vehicle
//
// Valid presets are summarized with their tire count, tank size and the number
// of pumps needed to fill the tank.
//
// Usage:
//
//	presetcheck [presets-dir]
//
// The directory defaults to $FLEET_PRESETS_DIR, then "presets".
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validatePreset loads, validates and test-builds a single preset file.
// builtins lists the IDs of the presets compiled into the server.
func validatePreset(path string, builtins map[string]bool) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	preset, err := catalog.LoadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	v, err := preset.Build()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot build vehicle: %v", err))
		return result
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ ID: %s", preset.ID),
		fmt.Sprintf("✓ Vehicle: %d %s %s %s", v.Year(), v.Color(), v.Brand(), v.Model()),
		fmt.Sprintf("✓ Kind: %s (%d tires)", v.Kind(), v.Tires()),
		fmt.Sprintf("✓ Tank: %.2f (%d pumps to fill)", v.FuelCapacity(), pumpsToFill(v.FuelCapacity())),
	)
	if builtins[strings.ToLower(preset.ID)] {
		result.Info = append(result.Info, "⚠ Overrides the built-in preset with the same ID")
	}

	return result
}

// pumpsToFill returns how many fuel increments fill an empty tank
func pumpsToFill(capacity float64) int {
	return int(math.Ceil(capacity/vehicle.FuelIncrement - 1e-9))
}

func builtinIDs() map[string]bool {
	ids := make(map[string]bool)
	manager, err := catalog.NewManager("")
	if err != nil {
		return ids
	}
	for _, p := range manager.List() {
		ids[p.ID] = true
	}
	return ids
}

// checkDir validates every *.json file in dir and writes a report to out.
// It reports whether all files are valid.
func checkDir(dir string, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding preset files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No preset files found in %s\n", dir)
		return true, nil
	}

	builtins := builtinIDs()
	allValid := true
	for _, file := range files {
		result := validatePreset(file, builtins)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+e)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some presets have errors")
	}
	return allValid, nil
}

func presetsDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if dir := os.Getenv("FLEET_PRESETS_DIR"); dir != "" {
		return dir
	}
	return "presets"
}

func main() {
	ok, err := checkDir(presetsDir(os.Args[1:]), os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
