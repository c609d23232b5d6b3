// ABOUTME: Help display for the qaforge CLI with grouped flags and examples.
package main

import (
	"fmt"
	"io"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "qaforge %s — browser test script analysis pipeline\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  qaforge <script.cy.js>              Run the full pipeline on a test script")
	fmt.Fprintln(w, "  qaforge -analyze <script.cy.js>     Print analysis JSON without running")
	fmt.Fprintln(w, "  qaforge -server [-port 8787]        Start HTTP API server")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pipeline Flags:")
	fmt.Fprintln(w, "  -data-dir <dir>   Directory for run artifacts (default: data)")
	fmt.Fprintln(w, "  -verbose          Print per-stage progress events")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -server           Start the HTTP API server")
	fmt.Fprintln(w, "  -port <port>      Override the port from QAFORGE_BIND")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  QAFORGE_BIND          Listen address (default: 127.0.0.1:8787)")
	fmt.Fprintln(w, "  QAFORGE_DATA_DIR      Run artifact directory (default: data)")
	fmt.Fprintln(w, "  QAFORGE_HEARTBEAT     SSE heartbeat interval (default: 1s)")
	fmt.Fprintln(w, "  QAFORGE_ALLOW_REMOTE  Allow non-loopback binds (default: false)")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded at startup.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  qaforge login.cy.js")
	fmt.Fprintln(w, "  qaforge -analyze checkout.spec.js | jq .complexity_score")
	fmt.Fprintln(w, "  qaforge -server -port 9000 -data-dir /var/lib/qaforge")
	fmt.Fprintln(w, "  Other flags: -version, -help")
}
