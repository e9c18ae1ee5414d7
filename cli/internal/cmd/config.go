package cmd

import (
	"fmt"
	"io"

	"github.com/courtside-app/courtside/cli/pkg/config"
	clierrors "github.com/courtside-app/courtside/cli/pkg/errors"
	"github.com/courtside-app/courtside/cli/pkg/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change local CLI configuration",
	Long: `Read and write the CLI's own config file. Account settings stored on
the server live under "courtside settings".`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Render(map[string]string{
			"config":      config.GetConfigFile(),
			"credentials": config.GetCredentialsPath(),
		}, func(w io.Writer) {
			fmt.Fprintln(w, config.GetConfigFile())
		})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every effective config value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make(map[string]string)
		rows := make([][]string, 0, len(config.Keys()))
		for _, key := range config.Keys() {
			values[key] = config.GetString(key)
			rows = append(rows, []string{key, values[key]})
		}
		return output.Render(values, func(io.Writer) {
			output.PrintTable([]string{"KEY", "VALUE"}, rows)
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKnownKey(key) {
			return unknownConfigKey(key)
		}
		value := config.GetString(key)
		return output.Render(map[string]string{key: value}, func(w io.Writer) {
			fmt.Fprintln(w, value)
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a config value to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !config.IsKnownKey(key) {
			return unknownConfigKey(key)
		}
		if key == "output.format" && !output.ValidateOutputFormat(value) {
			return clierrors.ValidationError("output.format", "must be text, json or table")
		}
		if err := config.SetString(key, value); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		output.PrintSuccess("Saved %s = %s", key, value)
		return nil
	},
}

func unknownConfigKey(key string) error {
	return clierrors.ValidationError(key, fmt.Sprintf("unknown key; known keys are %v", config.Keys()))
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
