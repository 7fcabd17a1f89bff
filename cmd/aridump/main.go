// Command aridump converts a single ARI between its text and binary
// CBOR forms, for inspecting values captured from a protocol trace
// or composing one by hand before sending it.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/jhuapl-dtnma/ari-go/ari"
	"github.com/jhuapl-dtnma/ari-go/ari/aricbor"
	"github.com/jhuapl-dtnma/ari-go/ari/aritext"
)

var cli struct {
	Text    string `arg:"" optional:"" help:"ARI in text form, e.g. //example/test/CTRL/hi(34)"`
	Hex     string `short:"x" help:"ARI as hex-encoded binary CBOR."`
	Verbose bool   `short:"v" help:"enable debug logging to stderr."`
}

func main() {
	kong.Parse(&cli, kong.Description("dump an ARI's text and binary CBOR forms"))

	if cli.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	v, err := readValue()
	if err != nil {
		fmt.Fprintln(os.Stderr, "aridump:", err)
		os.Exit(1)
	}

	text, err := aritext.Format(&v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aridump: format:", err)
		os.Exit(1)
	}
	data, err := aricbor.Encode(&v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aridump: encode:", err)
		os.Exit(1)
	}

	fmt.Println("text:", text)
	fmt.Println("cbor:", hex.EncodeToString(data))
}

func readValue() (ari.Value, error) {
	switch {
	case cli.Hex != "":
		data, err := hex.DecodeString(cli.Hex)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "hex input")
		}
		return aricbor.DecodeComplete(data)
	case cli.Text != "":
		return aritext.Parse(cli.Text)
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusArgument, "provide either a text ARI argument or -x/--hex")
	}
}
