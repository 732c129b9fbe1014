package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the cached last document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if s.store == nil {
			return fmt.Errorf("cache is disabled or unavailable")
		}
		s.explorer.Clear()
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
