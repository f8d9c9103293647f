package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/chrissnell/watchface/internal/log"
	"github.com/chrissnell/watchface/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
		verify     = flag.Bool("verify", true, "Read the database back and compare it with the YAML file")
		status     = flag.Bool("schema-status", false, "Print the schema version of an existing SQLite database and exit")
		schemaTo   = flag.Int("schema-version", -1, "Migrate an existing SQLite database to this schema version and exit")
	)
	flag.Parse()

	if *status || *schemaTo >= 0 {
		if *sqliteFile == "" {
			fmt.Fprintf(os.Stderr, "Usage: %s -sqlite <config.db> [-schema-status] [-schema-version N]\n", os.Args[0])
			os.Exit(1)
		}
		if err := schema(*sqliteFile, *schemaTo); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
	}

	fmt.Printf("Loading YAML configuration...\n")
	configData, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}
	if err := configData.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: YAML configuration is invalid: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*sqliteFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	// The provider applies the embedded schema migrations when it opens the file.
	fmt.Printf("Creating SQLite database...\n")
	provider, err := config.NewSQLiteProvider(*sqliteFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SQLite database: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	fmt.Printf("Loading configuration into SQLite database...\n")
	fmt.Printf("  Inserting face settings and %d outputs...\n", len(configData.Outputs))
	if err := provider.SaveConfig(configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration into SQLite: %v\n", err)
		os.Exit(1)
	}

	if *verify {
		stored, err := provider.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading back SQLite configuration: %v\n", err)
			os.Exit(1)
		}
		if !compareConfigs(configData, stored) {
			fmt.Fprintf(os.Stderr, "Error: SQLite configuration differs from the YAML source\n")
			os.Exit(1)
		}
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

// schema optionally moves an existing database to version target, then prints
// where its schema stands
func schema(dbPath string, target int) error {
	if _, err := os.Stat(dbPath); err != nil {
		return err
	}
	if target >= 0 {
		if err := log.Init(false); err != nil {
			return err
		}
		defer log.Sync()
		if err := config.MigrateSchema(dbPath, target, log.GetSugaredLogger()); err != nil {
			return err
		}
	}

	st, err := config.ReadSchemaStatus(dbPath)
	if err != nil {
		return err
	}
	fmt.Printf("Schema version %d of %d\n", st.Current, st.Latest)
	for _, p := range st.Pending {
		fmt.Printf("  pending: %s\n", p)
	}
	return nil
}

// compareConfigs prints a per-section comparison and reports whether all sections match
func compareConfigs(want, got *config.ConfigData) bool {
	ok := true
	check := func(section string, a, b interface{}) {
		if reflect.DeepEqual(a, b) {
			fmt.Printf("  ✓ %s matches\n", section)
			return
		}
		ok = false
		fmt.Printf("  ✗ %s differs\n    YAML:   %+v\n    SQLite: %+v\n", section, a, b)
	}

	fmt.Println("Verifying...")
	check("face", want.Face, got.Face)
	if len(want.Outputs) > 0 || len(got.Outputs) > 0 {
		check("outputs", want.Outputs, got.Outputs)
	}
	check("peripherals", want.Peripherals, got.Peripherals)
	check("management", want.Management, got.Management)
	check("logging", want.Logging, got.Logging)
	return ok
}

func printConfigSummary(configData *config.ConfigData) {
	face := configData.Face
	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("Face: %s, clock %s, %.2f,%.2f UTC%+d\n", face.Kind, face.ClockType,
		face.Location.Latitude, face.Location.Longitude, face.Location.TZOffset)

	fmt.Printf("\nOutputs (%d):\n", len(configData.Outputs))
	for _, out := range configData.Outputs {
		target := out.Path
		if out.SerialDevice != "" {
			target = fmt.Sprintf("%s @ %d baud", out.SerialDevice, out.Baud)
		}
		fmt.Printf("  - %s %s\n", out.Type, target)
	}

	if configData.Management != nil {
		fmt.Printf("\nManagement API: %s:%d\n", configData.Management.ListenAddr, configData.Management.Port)
	}
}
