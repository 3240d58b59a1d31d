package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current config (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Println("Current configuration:")
		fmt.Println()
		if cfg.Catalog.URL != "" {
			fmt.Printf("  Catalog API:\n")
			fmt.Printf("    URL:            %s\n", cfg.Catalog.URL)
			fmt.Printf("    Timeout:        %ds\n", cfg.Catalog.TimeoutSeconds)
		}
		if pg := cfg.Catalog.Postgres; pg != nil {
			fmt.Printf("  PostgreSQL:\n")
			fmt.Printf("    Host:           %s\n", pg.Host)
			fmt.Printf("    Port:           %d\n", pg.Port)
			fmt.Printf("    Database:       %s\n", pg.Database)
			fmt.Printf("    Schema:         %s\n", pg.Schema)
			fmt.Printf("    Username:       %s\n", pg.Username)
			fmt.Printf("    Password:       %s\n", maskSecret(pg.Password))
			fmt.Printf("    SSL:            %t\n", pg.SSL)
		}
		fmt.Printf("  Logging:\n")
		fmt.Printf("    Level:          %s\n", cfg.Logging.Level)
		fmt.Printf("    Directory:      %s\n", cfg.Logging.Directory)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Println("Config is valid.")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long:  `Walk through prompts to create a catalens configuration file at ~/.catalens/catalens.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		fmt.Println("catalens Configuration Setup")
		fmt.Println("============================")
		fmt.Println()

		cfg := &config.Config{Version: config.CurrentVersion}

		backend := prompt(reader, "Backend (api/postgres)", "api")
		if strings.EqualFold(backend, "postgres") {
			host := prompt(reader, "Host", "localhost")
			portStr := prompt(reader, "Port", "5432")
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return fmt.Errorf("invalid port: %s", portStr)
			}
			database := prompt(reader, "Database name", "")
			schema := prompt(reader, "Schema (leave empty for all)", "")
			username := prompt(reader, "Username", "")
			password := prompt(reader, "Password (or ${ENV:VAR})", "")
			cfg.Catalog.Postgres = &config.PostgresConfig{
				Host:     host,
				Port:     port,
				Database: database,
				Schema:   schema,
				Username: username,
				Password: password,
			}
		} else {
			cfg.Catalog.URL = prompt(reader, "Catalog API URL", "http://localhost:8000")
		}

		cfgPath := config.ExpandHome(config.DefaultPath)
		if cfgFile != "" {
			cfgPath = cfgFile
		}
		if err := cfg.Save(cfgPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("\nConfig written to %s\n", cfgPath)
		return nil
	},
}

func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if strings.HasPrefix(s, "${") {
		return s // reference, not a literal secret
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
