/*
Package cli provides command-line interface utilities for Callisto.

The cli package includes output formatters, progress reporters, and common CLI
helpers used by the callisto command.

Output Formatting:

Command results can be rendered as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Journal records have a dedicated table renderer:

	cli.WriteRecordTable(os.Stdout, records)

Progress Reporting:

For batch submissions, use the progress reporter:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(totalDocuments)
	for i, doc := range documents {
		// Submit document
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
