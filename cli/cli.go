package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/santiagomed/dapp/config"
	"github.com/santiagomed/dapp/contract"
	"github.com/santiagomed/dapp/llm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dapp",
	Short: "dapp generates a web interface for a deployed smart contract",
	Long:  `dapp reads a contract ABI and uses an LLM to plan, write and assemble a React interface for it.`,
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate an interface for a contract",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			exitWithError(fmt.Errorf("error parsing flags: %w", err))
		}

		setup, err := newGenSetup(flags)
		if err != nil {
			exitWithError(err)
		}

		if flags.plain {
			err := runPlain(cmd.Context(), setup, os.Stdout)
			setup.Close()
			if err != nil {
				exitWithError(err)
			}
			return
		}

		model := newGenerateModel(setup)
		p := tea.NewProgram(model)
		final, err := p.Run()
		model.Shutdown()
		setup.Close()
		if err != nil {
			exitWithError(fmt.Errorf("error running program: %w", err))
		}
		if failed(final) {
			os.Exit(1)
		}
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print what kind of contract an ABI describes",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := cmd.Flags().GetString("abi")
		if err != nil {
			exitWithError(err)
		}
		abi, err := readABI(path)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(describeContract(abi))
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			exitWithError(err)
		}
		path, err := config.CreateDefaultConfig(dir)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("Default configuration file created at: %s\n", nameStyle.Render(path))
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(initCmd)

	genCmd.Flags().StringP("abi", "a", "", "Path to the contract ABI or compiler artifact (JSON)")
	genCmd.Flags().String("address", "", "Deployed contract address (0x...)")
	genCmd.Flags().StringP("prompt", "p", "", "Extra requirements for the interface")
	genCmd.Flags().String("provider", "", fmt.Sprintf("LLM provider (%s)", providerList()))
	genCmd.Flags().StringP("model", "m", "", "Model name, defaults to the provider's default")
	genCmd.Flags().StringP("out", "o", "", "Directory the app is written to")
	genCmd.Flags().StringP("config", "c", "", "Path to a directory containing config.yaml")
	genCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")
	genCmd.Flags().Bool("zip", false, "Also write a zip archive of the app")
	genCmd.Flags().Bool("upload", false, "Upload the zipped app to the configured S3 bucket")
	genCmd.MarkFlagRequired("abi")
	genCmd.MarkFlagRequired("address")

	classifyCmd.Flags().StringP("abi", "a", "", "Path to the contract ABI or compiler artifact (JSON)")
	classifyCmd.MarkFlagRequired("abi")

	initCmd.Flags().String("dir", "", "Directory to write config.yaml to (default ~/.dapp)")
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	var f genFlags
	var err error
	flags := cmd.Flags()

	for name, dst := range map[string]*string{
		"abi":      &f.abi,
		"address":  &f.address,
		"prompt":   &f.prompt,
		"provider": &f.provider,
		"model":    &f.model,
		"out":      &f.out,
		"config":   &f.config,
	} {
		if *dst, err = flags.GetString(name); err != nil {
			return genFlags{}, err
		}
	}
	for name, dst := range map[string]*bool{
		"plain":  &f.plain,
		"zip":    &f.zip,
		"upload": &f.upload,
	} {
		if *dst, err = flags.GetBool(name); err != nil {
			return genFlags{}, err
		}
	}
	return f, nil
}

func providerList() string {
	ids := llm.SupportedProviders()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}

func describeContract(abi contract.ABI) string {
	events := strings.Join(abi.EventNames(), ", ")
	if events == "" {
		events = "none"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Type:      %s\n", nameStyle.Render(contract.Classify(abi).String())))
	sb.WriteString("Functions:\n")
	for _, fn := range abi.Functions() {
		mode := "write"
		if fn.IsView() {
			mode = "read"
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", fn.Signature(), faintStyle.Render(mode)))
	}
	sb.WriteString(fmt.Sprintf("Events:    %s", events))
	return sb.String()
}

// describeError turns the provider error kinds into something a user can act on.
func describeError(err error) string {
	var unsupported *llm.UnsupportedProviderError
	switch {
	case errors.As(err, &unsupported):
		return fmt.Sprintf("Error: %v (supported: %s)", err, providerList())
	case llm.IsAuthError(err):
		return fmt.Sprintf("Error: %v. Check the API key for the selected provider.", err)
	case llm.IsMalformed(err):
		return fmt.Sprintf("Error: %v. The model response could not be parsed; please report this as a bug and attach dapp.log.", err)
	case llm.IsRetryable(err):
		return fmt.Sprintf("Error: %v. The provider is temporarily unavailable; try again later.", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func failed(final tea.Model) bool {
	switch m := final.(type) {
	case generateCmdModel:
		return m.err != nil
	case *generateCmdModel:
		return m.err != nil
	default:
		return false
	}
}

func exitWithError(err error) {
	fmt.Println(errorStyle.Render(describeError(err)))
	os.Exit(1)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
