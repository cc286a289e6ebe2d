package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text [question]",
	Short: "Ask a typed question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		turn, err := newAPIClient().askText(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTurn(turn)
		return nil
	},
}

var audioCmd = &cobra.Command{
	Use:   "audio <file>",
	Short: "Ask a recorded question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		turn, err := newAPIClient().askAudio(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTurn(turn)
		return nil
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent question and answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		turn, err := newAPIClient().lastTurn(cmd.Context())
		if err != nil {
			return err
		}
		printTurn(turn)
		return nil
	},
}

func printTurn(turn *turnResponse) {
	fmt.Printf("Pregunta: %s\n", turn.Question)
	if turn.Term != "" && turn.Term != turn.Question {
		fmt.Printf("Búsqueda: %s\n", turn.Term)
	}
	fmt.Printf("\n%s\n", turn.Answer)
	if len(turn.Products) > 0 {
		fmt.Println("\nProductos:")
		for _, p := range turn.Products {
			fmt.Printf("  - %s | %s %.2f | %s / %s\n", p.Name, p.Currency, p.Price, p.Family, p.Subfamily)
		}
	}
	if turn.Cached {
		fmt.Println("\n(respuesta servida desde caché)")
	}
}
