package main

import (
	"io"
	"os"
	"runtime"

	colorable "github.com/mattn/go-colorable"
	logging "github.com/shenwei356/go-logging"

	"github.com/nextstrain/nextclade-sort/cmd/nextcladesort/cmd"
)

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

func init() {
	var stderr io.Writer = os.Stderr
	if runtime.GOOS == "windows" {
		stderr = colorable.NewColorableStderr()
	}
	backend := logging.NewLogBackend(stderr, "", 0)
	backendFormatter := logging.NewBackendFormatter(backend, logFormat)
	logging.SetBackend(backendFormatter)
}

func main() {
	cmd.Execute()
}
