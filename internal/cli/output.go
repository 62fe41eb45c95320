package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type output struct {
	format string
}

func bindOutput(fs *pflag.FlagSet) *output {
	o := &output{}
	fs.StringVarP(&o.format, "output", "o", outputText, "Output format (text|json)")

	return o
}

func (o *output) validate() error {
	switch o.format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.format)
	}
}

// render writes v as indented JSON, or calls text for the human format.
func (o *output) render(w io.Writer, v any, text func(tw *tabwriter.Writer)) error {
	if err := o.validate(); err != nil {
		return err
	}

	if o.format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	text(tw)

	return tw.Flush()
}
