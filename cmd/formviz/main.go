// Command formviz runs the data-visualization companion service for the
// form platform.
package main

import "github.com/dataviz-labs/formviz/internal/cli"

func main() {
	cli.Execute()
}
