// Package cli is the applicant's command line front end to the wizard.
// Every command hydrates the wizard from the saved draft, acts on it and
// flushes the autosave before exiting.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"social-support/internal/locale"
	"social-support/internal/wizard"
)

// Opener returns a wizard hydrated from storage.
type Opener func(ctx context.Context) (*wizard.Controller, error)

type app struct {
	open Opener
	lang string
}

func NewRoot(open Opener) *cobra.Command {
	a := &app{open: open}
	root := &cobra.Command{
		Use:           "applicant",
		Short:         "Fill in and submit a social support application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "Language for messages and suggestions (en, ar)")

	root.AddCommand(
		a.showCmd(),
		a.editCmd(),
		a.nextCmd(),
		a.backCmd(),
		a.gotoCmd(),
		a.suggestCmd(),
		a.acceptCmd(),
		a.submitCmd(),
		a.resultCmd(),
		a.newCmd(),
	)
	return root
}

// run wraps a command body with wizard hydration and the final flush.
func (a *app) run(fn func(cmd *cobra.Command, args []string, c *wizard.Controller) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := a.open(ctx)
		if err != nil {
			return err
		}
		defer c.Close(ctx)

		if strings.TrimSpace(a.lang) != "" {
			c.SetLanguage(locale.Parse(a.lang))
		}
		return fn(cmd, args, c)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints field errors of a rejected step and passes every error on.
func report(w io.Writer, err error) error {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(w, "The %s step has errors:\n", verr.Step)
		for _, f := range verr.Fields.Fields() {
			fmt.Fprintf(w, "  %s: %s\n", f, verr.Fields[f])
		}
	}
	return err
}
