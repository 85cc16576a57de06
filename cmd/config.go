package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		c := config.AppConfig
		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Printf("%s %s\n", labelStyle.Render("Database:"), c.DatabaseDriver)
		fmt.Printf("%s %s (bucket %s)\n", labelStyle.Render("Storage:"), c.StorageBackend, c.StorageBucket)
		fmt.Printf("%s %d MB\n", labelStyle.Render("Max Resume Size:"), c.MaxResumeSizeMB)
		fmt.Printf("%s %d\n", labelStyle.Render("Activity Page Size:"), c.ActivityPageSize)
		fmt.Printf("%s %s\n", labelStyle.Render("HTTP Address:"), c.HTTPAddr)
		fmt.Printf("%s %s\n", labelStyle.Render("AI Provider:"), c.AIProvider)
		fmt.Printf("%s %s\n", labelStyle.Render("Default Model:"), c.DefaultModel)

		// Show if secrets are configured (but don't show the actual values)
		printConfigured("Database URL:", c.DatabaseURL)
		printConfigured("OpenAI Key:", c.OpenAIKey)
		printConfigured("Anthropic Key:", c.AnthropicKey)
		printConfigured("Gemini Key:", c.GeminiKey)
		printConfigured("S3 Credentials:", c.S3AccessKey)
		printConfigured("RabbitMQ:", c.RabbitMQURL)
		printConfigured("Session:", c.SessionToken)
	},
}

func printConfigured(label, value string) {
	status := "✗ Not configured"
	if value != "" {
		status = "✓ Configured"
	}
	fmt.Printf("%s %s\n", labelStyle.Render(label), status)
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  mockprep config set --key openai_key --value sk-...
  mockprep config set --key ai_provider --value gemini
  mockprep config set --key database_driver --value postgres
  mockprep config set --key storage_backend --value s3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || !cmd.Flags().Changed("value") {
			return fmt.Errorf("both --key and --value are required")
		}
		if !config.IsSettable(key) {
			return fmt.Errorf("invalid key %q, must be one of: %v", key, config.SettableKeys)
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}
		fmt.Println(successStyle.Render("✓ Configuration updated: " + key))

		// Reload config
		if err := config.Initialize(); err != nil {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("Warning: could not reload config: %v", err)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
