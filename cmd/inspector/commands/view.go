/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: view.go
Description: View command implementation for the PyPI Inspector. Decodes a
local file through the fallback decoder and prints the recovered text or the
file detail block.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/pypi-inspector/pkg/analysis"
	"github.com/kleascm/pypi-inspector/pkg/charset"
)

// RunView decodes a local file and prints the result
func RunView(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	path := args[0]
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if viper.GetBool("details") {
		details := analysis.BasicDetails(path, contents)
		fmt.Printf("Path:   %s\n", details.Path)
		fmt.Printf("Size:   %d bytes\n", details.Size)
		fmt.Printf("SHA256: %s\n", details.SHA256)
		fmt.Printf("Lines:  %d\n", details.LineCount)
		fmt.Printf("Type:   %s\n", details.TypeHint)
		return nil
	}

	engine, err := charset.NewDefaultEngine()
	if err != nil {
		return fmt.Errorf("failed to create decode engine: %w", err)
	}

	result := engine.Decode(contents)
	if result.Binary {
		fmt.Println("Binary files are not supported.")
		return nil
	}

	fmt.Fprintf(os.Stderr, "Encoding: %s\n", result.Encoding)
	fmt.Print(result.Text)
	return nil
}
