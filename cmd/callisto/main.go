// Callisto is a rate-limited command-line client for the GIS MT (Честный
// знак) marking API.
//
// Every API call passes through a fixed-window admission gate, so concurrent
// use never exceeds the configured request rate. Submissions are recorded in
// a local journal for audit.
//
// Usage:
//
//	# Submit a document with its detached signature
//	callisto submit --document doc.json --signature doc.sig --token $TOKEN
//
//	# Request an authentication challenge
//	callisto auth challenge
//
//	# Exchange a signed challenge for a bearer token
//	callisto auth confirm --uuid <uuid> --signed-data signed.b64
//
//	# Inspect the submission journal
//	callisto journal list --status failed
//
//	# Validate the configuration file
//	callisto config validate
package main

func main() {
	Execute()
}
