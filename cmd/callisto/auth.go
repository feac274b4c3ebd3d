package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"truemark-hq/callisto/pkg/cli"
)

var authFlags struct {
	uuid       string
	signedData string
	format     string
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Certificate-based authentication flow",
	Long: `Obtain a bearer token via the certificate authentication flow.

Authentication is a two-step exchange: fetch a random challenge, sign
its data with a qualified certificate outside of this tool, then confirm
the challenge with the signed data to receive a bearer token.

Examples:
  # Step 1: fetch the challenge
  callisto auth challenge

  # Step 2: confirm with externally signed data
  callisto auth confirm --uuid "<uuid>" --signed-data "$(cat signed.b64)"`,
}

var authChallengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Request an authentication challenge",
	RunE:  runAuthChallenge,
}

var authConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm a signed challenge and print the bearer token",
	RunE:  runAuthConfirm,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authChallengeCmd, authConfirmCmd)

	authChallengeCmd.Flags().StringVar(&authFlags.format, "format", "text", "output format: text, json")

	authConfirmCmd.Flags().StringVar(&authFlags.uuid, "uuid", "", "challenge UUID")
	authConfirmCmd.Flags().StringVar(&authFlags.signedData, "signed-data", "", "base64 detached signature over the challenge data")
	authConfirmCmd.Flags().StringVar(&authFlags.format, "format", "text", "output format: text, json")
}

func runAuthChallenge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := buildClient(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ctx := cli.SetupSignalHandler()

	challenge, err := b.client.RequestAuthChallenge(ctx)
	if err != nil {
		return cli.NewCommandError("auth", err)
	}

	if authFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, challenge)
	}

	fmt.Printf("UUID: %s\n", challenge.UUID)
	fmt.Printf("Data: %s\n", challenge.Data)
	fmt.Println()
	fmt.Println("Sign the data with your certificate, then run:")
	fmt.Printf("  callisto auth confirm --uuid %q --signed-data <base64>\n", challenge.UUID)
	return nil
}

func runAuthConfirm(cmd *cobra.Command, args []string) error {
	if authFlags.uuid == "" {
		return cli.NewCommandError("auth", fmt.Errorf("--uuid is required"))
	}
	if authFlags.signedData == "" {
		return cli.NewCommandError("auth", fmt.Errorf("--signed-data is required"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := buildClient(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ctx := cli.SetupSignalHandler()

	token, err := b.client.Authenticate(ctx, authFlags.uuid, authFlags.signedData)
	if err != nil {
		return cli.NewCommandError("auth", err)
	}

	if authFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, map[string]string{"token": token})
	}

	// The raw token goes to stdout only, for shell capture. It is never
	// written to logs or the journal.
	fmt.Println(token)
	return nil
}
