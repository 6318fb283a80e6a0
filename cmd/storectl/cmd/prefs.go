package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and set display preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the persisted preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		fmt.Printf("locale: %s\ntheme: %s\ndirection: %s\n",
			a.prefs.Locale(), a.prefs.Theme(), a.prefs.Direction())
		return nil
	},
}

var prefsSetLocaleCmd = &cobra.Command{
	Use:   "set-locale <locale>",
	Short: "Set the locale (direction follows the language)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.prefs.SetLocale(args[0]); err != nil {
			return err
		}
		fmt.Printf("locale: %s  direction: %s\n", a.prefs.Locale(), a.prefs.Direction())
		return nil
	},
}

var prefsSetThemeCmd = &cobra.Command{
	Use:   "set-theme <theme>",
	Short: "Set the theme name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.prefs.SetTheme(args[0])
	},
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetLocaleCmd, prefsSetThemeCmd)
	rootCmd.AddCommand(prefsCmd)
}
