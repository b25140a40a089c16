// Command ftpmib queries and serves the PROFTPD-MIB object registry.
package main

import (
	"os"

	"github.com/geekxflood/ftpmib/cli"
)

func main() {
	os.Exit(cli.Execute())
}
