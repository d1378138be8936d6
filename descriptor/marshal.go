package descriptor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// document is the encoded form of a List.
type document struct {
	Entries int    `json:"entries" yaml:"entries"`
	Digest  string `json:"digest"  yaml:"digest"`
	Rows    []Row  `json:"rows"    yaml:"rows"`
}

func (l *List) document() document {
	return document{
		Entries: l.Len(),
		Digest:  l.DigestString(),
		Rows:    l.Rows(),
	}
}

// MarshalJSON implements json.Marshaler for List.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.document())
}

// FormatJSON writes the list as JSON to w. An indent of zero writes compact
// output on a single line.
func (l *List) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(l.document(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(l.document())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the list as YAML to w. An indent of zero writes flow
// style.
func (l *List) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, l.document(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
