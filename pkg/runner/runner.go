package runner

import (
	"bytes"
	"os"

	"github.com/dimiro1/banner"
)

const EngineVersion = "dev"

func PrintBanner() {
	tpl := "{{ .Title \"SPEECHKIT\" \"\" 0 }}\nVersion: " + EngineVersion + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}
