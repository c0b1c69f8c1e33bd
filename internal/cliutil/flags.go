package cliutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/depthchart/internal/depth"
)

// GetString returns the flag value, falling back to the viper key of the
// same name and then to the environment variable DEPTHCHART_<FLAG>.
func GetString(cmd *cobra.Command, flag string) string {
	value, _ := cmd.Flags().GetString(flag)
	if value != "" {
		return value
	}

	if value = viper.GetString(flag); value != "" {
		return value
	}

	env := "DEPTHCHART_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
	return os.Getenv(env)
}

// ParseDomain parses a "low,high" price range. The bounds are ordered.
func ParseDomain(s string) (*depth.Domain, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q: expected low,high", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	d := depth.Domain{lo, hi}
	if d.Degenerate() {
		return nil, fmt.Errorf("invalid range %q: bounds must differ and be finite", s)
	}
	return &d, nil
}

// FloatPtr returns a pointer to the flag value when the flag was set.
func FloatPtr(cmd *cobra.Command, flag string) *float64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		return nil
	}
	return &v
}
