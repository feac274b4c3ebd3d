package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"truemark-hq/callisto/pkg/cli"
	"truemark-hq/callisto/pkg/ismt"
)

var submitFlags struct {
	document  string
	signature string
	batchDir  string
	token     string
	format    string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit goods-introduction documents",
	Long: `Submit goods-introduction documents to GIS MT.

Every submission passes through the admission gate, so a batch never
exceeds the configured request rate. The detached signature travels
alongside the document and is never logged or journaled in the clear.

Examples:
  # Submit a single document
  callisto submit --document doc.json --signature doc.sig --token "$TOKEN"

  # Submit every document in a directory (doc.json pairs with doc.sig)
  callisto submit --batch ./documents --token "$TOKEN"`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitFlags.document, "document", "d", "", "document JSON file")
	submitCmd.Flags().StringVarP(&submitFlags.signature, "signature", "s", "", "detached signature file (defaults to the document path with a .sig extension)")
	submitCmd.Flags().StringVar(&submitFlags.batchDir, "batch", "", "directory of document/signature pairs to submit")
	submitCmd.Flags().StringVarP(&submitFlags.token, "token", "t", "", "bearer token (or CALLISTO_TOKEN)")
	submitCmd.Flags().StringVar(&submitFlags.format, "format", "text", "output format: text, json")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token := submitFlags.token
	if token == "" {
		token = os.Getenv("CALLISTO_TOKEN")
	}
	if token == "" {
		return cli.NewCommandError("submit", fmt.Errorf("no bearer token: pass --token or set CALLISTO_TOKEN"))
	}

	if submitFlags.document == "" && submitFlags.batchDir == "" {
		return cli.NewCommandError("submit", fmt.Errorf("either --document or --batch is required"))
	}
	if submitFlags.document != "" && submitFlags.batchDir != "" {
		return cli.NewCommandError("submit", fmt.Errorf("--document and --batch are mutually exclusive"))
	}

	b, err := buildClient(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ctx := cli.SetupSignalHandler()

	if submitFlags.batchDir != "" {
		return submitBatch(ctx, b.client, token)
	}
	return submitOne(ctx, b.client, token)
}

// submitOne submits a single document and prints the created document ID.
func submitOne(ctx context.Context, client *ismt.Client, token string) error {
	doc, signature, err := loadSubmission(submitFlags.document, submitFlags.signature)
	if err != nil {
		return err
	}

	id, err := client.CreateDocument(ctx, doc, signature, token)
	if err != nil {
		return cli.NewCommandError("submit", err)
	}

	if submitFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, map[string]string{
			"document":    submitFlags.document,
			"document_id": id,
		})
	}

	fmt.Printf("✓ Document accepted: %s\n", id)
	return nil
}

// submitBatch submits every document/signature pair under the batch
// directory, in file-name order, reporting progress as it goes.
func submitBatch(ctx context.Context, client *ismt.Client, token string) error {
	pairs, err := collectBatch(submitFlags.batchDir)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	fmt.Printf("Submitting %d documents from %s\n", len(pairs), submitFlags.batchDir)

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(len(pairs))

	type result struct {
		Document   string `json:"document"`
		DocumentID string `json:"document_id,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	results := make([]result, 0, len(pairs))
	failed := 0

	for _, pair := range pairs {
		if ctx.Err() != nil {
			progress.Abort(ctx.Err())
			return cli.NewCommandError("submit", ctx.Err())
		}

		doc, signature, err := loadSubmission(pair.docPath, pair.sigPath)
		if err != nil {
			return err
		}

		id, err := client.CreateDocument(ctx, doc, signature, token)
		res := result{Document: filepath.Base(pair.docPath), DocumentID: id}
		if err != nil {
			res.Error = err.Error()
			failed++
			progress.Fail()
		} else {
			progress.Done()
		}
		results = append(results, res)
	}
	progress.Finish()

	if submitFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, map[string]interface{}{
			"total":   len(pairs),
			"failed":  failed,
			"results": results,
		})
	}

	for _, res := range results {
		if res.Error != "" {
			fmt.Printf("✗ %s: %s\n", res.Document, res.Error)
		} else {
			fmt.Printf("✓ %s: %s\n", res.Document, res.DocumentID)
		}
	}
	fmt.Printf("\nSubmitted: %d, failed: %d\n", len(pairs)-failed, failed)

	if failed > 0 {
		return cli.NewCommandError("submit", fmt.Errorf("%d of %d documents failed", failed, len(pairs)))
	}
	return nil
}

// batchPair is one document file and its detached signature file.
type batchPair struct {
	docPath string
	sigPath string
}

// collectBatch lists the document/signature pairs in dir. Every *.json file
// must have a matching *.sig next to it.
func collectBatch(dir string) ([]batchPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cli.NewCommandError("submit", fmt.Errorf("failed to read batch directory: %w", err))
	}

	pairs := make([]batchPair, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		docPath := filepath.Join(dir, entry.Name())
		sigPath := strings.TrimSuffix(docPath, ".json") + ".sig"
		if _, err := os.Stat(sigPath); err != nil {
			return nil, cli.NewCommandError("submit",
				fmt.Errorf("no signature file for %s (expected %s)", entry.Name(), filepath.Base(sigPath)))
		}
		pairs = append(pairs, batchPair{docPath: docPath, sigPath: sigPath})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].docPath < pairs[j].docPath })
	return pairs, nil
}

// loadSubmission reads a document JSON file and its detached signature.
// An empty sigPath defaults to the document path with a .sig extension.
func loadSubmission(docPath, sigPath string) (*ismt.Document, string, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return nil, "", cli.NewCommandError("submit", fmt.Errorf("failed to read document: %w", err))
	}

	var doc ismt.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", cli.NewCommandError("submit", fmt.Errorf("invalid document %s: %w", docPath, err))
	}

	if sigPath == "" {
		sigPath = strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".sig"
	}
	sig, err := os.ReadFile(sigPath)
	if err != nil {
		return nil, "", cli.NewCommandError("submit", fmt.Errorf("failed to read signature: %w", err))
	}

	return &doc, strings.TrimSpace(string(sig)), nil
}
