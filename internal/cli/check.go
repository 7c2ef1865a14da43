package cli

import (
	"github.com/spf13/cobra"

	"schemroute/rerrors"
	"schemroute/validation"
)

func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [board.json]",
		Short: "Check that stored wire routes still fit the board",
		Long: `Check loads a board without rerouting and verifies every stored wire:
it must start and end on its terminals, run in orthogonal segments and stay
clear of other components.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := loadBoard(args[0])
			if err != nil {
				return err
			}
			v := validation.NewWireValidator(c.cfg.GridModel(), c.cfg.Grid.Clearance)
			v.SetStrictMode(strict)
			errs := v.Validate(board)
			for _, e := range errs {
				c.printWarning("%s", e)
			}
			if len(errs) > 0 {
				return rerrors.New(rerrors.ErrCodeInvalidFormat, "%d problems in %s", len(errs), args[0])
			}
			c.printSuccess("%d wires ok", len(board.Wires()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also reject wires crossing their own components")
	return cmd
}
