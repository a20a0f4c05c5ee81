package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"social-support/internal/form"
	"social-support/internal/wizard"
)

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current draft",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			s := c.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Step: %s\n", s.CurrentStep)
			fmt.Fprintf(out, "Language: %s\n", c.Language())
			if s.LastSaved != nil {
				fmt.Fprintf(out, "Last saved: %s\n", s.LastSaved.Local().Format(time.RFC1123))
			}
			return printJSON(out, s.Application())
		}),
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <personal|family|situation> field=value...",
		Short: "Change fields of a step",
		Example: "  applicant edit personal name=\"Jane Doe\" email=jane@example.com\n" +
			"  applicant edit family dependents=2 monthlyIncome=1200",
		Args: cobra.MinimumNArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string, c *wizard.Controller) error {
			step := form.Step(args[0])
			patch, err := parsePatch(step, args[1:])
			if err != nil {
				return err
			}
			return c.Edit(step, patch)
		}),
	}
}

func (a *app) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Validate the current step and continue",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			if err := c.Next(cmd.Context()); err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now on the %s step\n", c.CurrentStep())
			return nil
		}),
	}
}

func (a *app) backCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Return to the previous step",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			if err := c.Back(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now on the %s step\n", c.CurrentStep())
			return nil
		}),
	}
}

func (a *app) gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <personal|family>",
		Short: "Jump back to an earlier step",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, c *wizard.Controller) error {
			return c.GoTo(form.Step(args[0]))
		}),
	}
}

func (a *app) suggestCmd() *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "suggest <financialSituation|employmentCircumstances|reasonForApplying>",
		Short: "Ask for a writing suggestion for a situation field",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, c *wizard.Controller) error {
			field := form.NarrativeField(args[0])
			text, err := c.Suggest(cmd.Context(), field)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if accept {
				return c.AcceptSuggestion(field, text)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "Write the suggestion into the field")
	return cmd
}

func (a *app) acceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <field> <text>",
		Short: "Write text into a situation field",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string, c *wizard.Controller) error {
			return c.AcceptSuggestion(form.NarrativeField(args[0]), strings.Join(args[1:], " "))
		}),
	}
}

func (a *app) submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Submit the completed application",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			out := cmd.OutOrStdout()
			res, err := c.Submit(cmd.Context())
			if err != nil {
				if msg := c.SubmitError(); msg != "" {
					fmt.Fprintln(out, msg)
				}
				return report(out, err)
			}
			fmt.Fprintf(out, "Application submitted. Reference number: %s\n", res.ReferenceNumber)
			return nil
		}),
	}
}

func (a *app) resultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result",
		Short: "Show the last submitted application",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			res := c.Result(cmd.Context())
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No submitted application found")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
}

func (a *app) newCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new application",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string, c *wizard.Controller) error {
			return c.NewApplication(cmd.Context(), force)
		}),
	}
	cmd.Flags().BoolVar(&force, "force", false, "Discard an unsubmitted draft")
	return cmd
}

// parsePatch turns field=value pairs into the payload type of step.
func parsePatch(step form.Step, pairs []string) (interface{}, error) {
	raw := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected field=value, got %q", p)
		}
		raw[k] = v
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	switch step {
	case form.StepPersonal:
		var p form.PersonalInfo
		err = dec.Decode(&p)
		return p, err
	case form.StepFamily:
		var f form.FamilyFinancial
		err = dec.Decode(&f)
		return f, err
	case form.StepSituation:
		var s form.SituationDescriptions
		err = dec.Decode(&s)
		return s, err
	default:
		return nil, fmt.Errorf("unknown step %q", step)
	}
}
