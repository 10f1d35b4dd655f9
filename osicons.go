package main

import (
	"os"

	_ "github.com/safing/osicons/api"
	"github.com/safing/osicons/info"
	_ "github.com/safing/osicons/metrics"
	_ "github.com/safing/osicons/osimage/osapi"
	"github.com/safing/osicons/run"
)

func main() {
	// Set Info
	info.Set("OS Icons", "0.1.0", "GPLv3")

	// Run
	os.Exit(run.Run())
}
