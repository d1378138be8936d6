package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/cfggen/pkg"
)

// Version prints the program version.
type Version struct {
	Authors bool `help:"Also print the authors." short:"a"`
}

// Run executes the version command.
func (v Version) Run(ctx context.Context) error {
	out := stdioFrom(ctx).out

	if _, err := fmt.Fprintf(out, "%s %s\n", pkg.Name, pkg.Version()); err != nil {
		return err
	}

	if !v.Authors {
		return nil
	}

	for _, a := range pkg.Author {
		if _, err := fmt.Fprintln(out, a); err != nil {
			return err
		}
	}

	return nil
}
