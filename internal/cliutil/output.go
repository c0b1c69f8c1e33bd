package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// HandleOutput writes v to the command's output according to the
// --template or --format flag.
func HandleOutput(cmd *cobra.Command, v any) error {
	templateFlag, _ := cmd.Flags().GetString("template")
	formatFlag, _ := cmd.Flags().GetString("format")

	if templateFlag != "" {
		tmpl, err := template.New("output").Parse(templateFlag)
		if err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}
		if err := tmpl.Execute(cmd.OutOrStdout(), v); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}

	return Encode(cmd.OutOrStdout(), v, formatFlag)
}

// Encode writes v to w as YAML when format is "yaml" and as indented
// JSON otherwise.
func Encode(w io.Writer, v any, format string) error {
	var output []byte
	var err error
	switch format {
	case "yaml":
		output, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
	default:
		output, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}
