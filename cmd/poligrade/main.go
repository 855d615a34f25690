package main

import (
	"github.com/gzambran/poligrade/cmd/poligrade/commands"
	"github.com/gzambran/poligrade/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
