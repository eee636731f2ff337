package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent search queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st := openStore(cfg)
		defer st.Close()

		history := st.History()
		if len(history) == 0 {
			fmt.Println("No searches yet.")
			return nil
		}
		for i, query := range history {
			fmt.Printf("%2d. %s\n", i+1, query)
		}
		return nil
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st := openStore(cfg)
		defer st.Close()

		saved := st.Saved()
		if len(saved) == 0 {
			fmt.Println("No saved articles yet.")
			return nil
		}
		for _, article := range saved {
			fmt.Printf("%s\n    %s\n", article.Title, article.Link)
		}
		return nil
	},
}
