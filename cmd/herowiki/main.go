package main

import (
	"herowiki/cmd/herowiki/commands"
	"herowiki/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
